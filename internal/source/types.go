package source

import (
	"errors"
	"fmt"
	"time"

	"github.com/GriffinCanCode/pacd/internal/shared/utils"
)

// MaxScriptSize caps a script body
const MaxScriptSize = 4 << 20

var (
	ErrEmptyScript       = errors.New("PAC script is empty")
	ErrScriptTooLarge    = fmt.Errorf("PAC script exceeds %d bytes", MaxScriptSize)
	ErrUnsupportedScheme = errors.New("unsupported script location scheme")
)

// Script is a loaded PAC source
type Script struct {
	Location string    `json:"location"`
	Body     string    `json:"-"`
	Charset  string    `json:"charset"`
	Checksum string    `json:"checksum"`
	LoadedAt time.Time `json:"loaded_at"`
}

func newScript(location, body, charset string) *Script {
	return &Script{
		Location: location,
		Body:     body,
		Charset:  charset,
		Checksum: utils.DefaultHasher().HashString(body),
		LoadedAt: time.Now(),
	}
}

// StatusError is returned for a non-2xx response
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
}

// Temporary reports whether retrying later may succeed
func (e *StatusError) Temporary() bool {
	return e.Status >= 500 || e.Status == 429
}
