package sandbox

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/dop251/goja"
)

const gojaModule = "github.com/dop251/goja"

// Namespaces that Rhino-style PAC scripts use to reach host classes
var hostNamespaces = []string{"Packages", "java", "javax", "org", "com", "net", "sun"}

// Runtime wraps a goja VM holding one loaded PAC script
type Runtime struct {
	vm     *goja.Runtime
	config Config
	mu     sync.Mutex

	helpers *goja.Object

	// First denied lookup of the current load or invocation
	violation *AccessDeniedError
}

// New creates a runtime, binds helpers and loads script. The context bounds
// the evaluation of the script's top-level code.
func New(ctx context.Context, script string, helpers Helpers, config Config) (*Runtime, error) {
	if helpers == nil {
		return nil, &LoadError{Stage: StageSetup, Err: ErrNoHelpers}
	}
	if config.Policy.isZero() {
		config.Policy = DefaultPolicy()
	}

	r := &Runtime{
		vm:     goja.New(),
		config: config,
	}

	if config.MaxCallStackSize > 0 {
		r.vm.SetMaxCallStackSize(config.MaxCallStackSize)
	}

	if err := r.setupGlobals(); err != nil {
		return nil, &LoadError{Stage: StageSetup, Err: err}
	}

	if err := r.bindHelpers(helpers); err != nil {
		return nil, &LoadError{Stage: StageSetup, Err: err}
	}

	// Wrappers are defined before the script so its top-level code can call
	// them, and again afterwards so the standard names always delegate to
	// the helper object
	if err := r.load(ctx, "pac_helpers.js", helperScript); err != nil {
		return nil, &LoadError{Stage: StageHelpers, Err: err}
	}

	if err := r.load(ctx, "proxy.pac", script); err != nil {
		return nil, &LoadError{Stage: StageScript, Err: err}
	}

	if err := r.load(ctx, "pac_helpers.js", helperScript); err != nil {
		return nil, &LoadError{Stage: StageHelpers, Err: err}
	}

	return r, nil
}

// Invoke calls the global function name with args and returns its exported
// result, nil for null or undefined
func (r *Runtime) Invoke(ctx context.Context, name string, args ...interface{}) (result interface{}, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.vm == nil {
		return nil, ErrClosed
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrInterrupted, ctx.Err())
	}

	fn, ok := goja.AssertFunction(r.vm.Get(name))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUndefinedFunction, name)
	}

	values := make([]goja.Value, len(args))
	for i, arg := range args {
		values[i] = r.vm.ToValue(arg)
	}

	r.violation = nil
	stop := r.watch(ctx)
	defer stop()

	// Helpers are host code; a panic there must not escape the engine
	defer func() {
		if p := recover(); p != nil {
			result, err = nil, &ScriptError{Function: name, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	val, callErr := fn(goja.Undefined(), values...)
	if r.violation != nil {
		return nil, r.violation
	}
	if callErr != nil {
		return nil, r.classify(name, callErr)
	}

	return exportValue(val), nil
}

// HasFunction reports whether name is bound to something callable
func (r *Runtime) HasFunction(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.vm == nil {
		return false
	}
	_, ok := goja.AssertFunction(r.vm.Get(name))
	return ok
}

// Policy returns the policy the runtime was built with
func (r *Runtime) Policy() Policy {
	return r.config.Policy
}

// Close releases the VM
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.vm = nil
	r.helpers = nil
	return nil
}

// load evaluates src at top level, reporting sandbox violations over the
// exception they caused
func (r *Runtime) load(ctx context.Context, name, src string) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.violation = nil
	stop := r.watch(ctx)
	defer stop()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	_, runErr := r.vm.RunScript(name, src)
	if r.violation != nil {
		return r.violation
	}
	if runErr != nil {
		return r.classify(name, runErr)
	}
	return nil
}

// watch interrupts the VM when ctx is done. The returned func waits for the
// watcher to exit before clearing the interrupt flag so a late interrupt
// cannot leak into the next call.
func (r *Runtime) watch(ctx context.Context) func() {
	if ctx == nil || ctx.Done() == nil {
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			r.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	return func() {
		close(done)
		wg.Wait()
		r.vm.ClearInterrupt()
	}
}

func (r *Runtime) classify(name string, err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return fmt.Errorf("%w: %v", ErrInterrupted, interrupted.Value())
	}
	return &ScriptError{Function: name, Err: err}
}

// setupGlobals removes host-ish globals and installs the guarded lookups
func (r *Runtime) setupGlobals() error {
	for _, name := range []string{"process", "module", "exports"} {
		if err := r.vm.Set(name, goja.Undefined()); err != nil {
			return err
		}
	}

	if err := r.vm.Set("require", func(call goja.FunctionCall) goja.Value {
		return r.resolve(call.Argument(0).String())
	}); err != nil {
		return err
	}

	for _, name := range []string{"importClass", "importPackage", "JavaImporter"} {
		name := name
		if err := r.vm.Set(name, func(call goja.FunctionCall) goja.Value {
			r.deny(name)
			return goja.Undefined()
		}); err != nil {
			return err
		}
	}

	for _, root := range hostNamespaces {
		path := root
		if root == "Packages" {
			path = ""
		}
		if err := r.vm.Set(root, r.vm.NewDynamicObject(&namespace{r: r, path: path})); err != nil {
			return err
		}
	}

	if !r.config.AllowEval {
		if err := r.vm.Set("eval", goja.Undefined()); err != nil {
			return err
		}
		if _, err := r.vm.RunString(lockCodeGeneration); err != nil {
			return err
		}
		// Async generators are newer syntax; without them there is nothing to lock
		_, _ = r.vm.RunString(lockAsyncGenerators)
	}

	return nil
}

// lockCodeGeneration replaces every route to a function constructor with a
// throwing stub: the global Function and the constructor property of each
// function prototype
const lockCodeGeneration = `(function() {
	var deny = function() { throw new TypeError('code generation from strings is disabled'); };
	var lock = function(proto) {
		Object.defineProperty(proto, 'constructor', {
			value: deny,
			writable: false,
			configurable: false
		});
	};
	lock(Function.prototype);
	lock(Object.getPrototypeOf(function*() {}));
	lock(Object.getPrototypeOf(async function() {}));
	Object.defineProperty(this, 'Function', {
		value: deny,
		writable: false,
		configurable: false
	});
}).call(this);`

const lockAsyncGenerators = `Object.defineProperty(Object.getPrototypeOf(async function*() {}), 'constructor', {
	value: function() { throw new TypeError('code generation from strings is disabled'); },
	writable: false,
	configurable: false
});`

// resolve maps an allowed capability name to its value
func (r *Runtime) resolve(name string) goja.Value {
	if !r.config.Policy.Allows(name) {
		r.deny(name)
	}
	if name == HelperSurface {
		return r.helpers
	}
	return goja.Undefined()
}

// deny records the violation and throws into the script
func (r *Runtime) deny(name string) {
	err := &AccessDeniedError{Name: name}
	if r.violation == nil {
		r.violation = err
	}
	panic(r.vm.NewTypeError(err.Error()))
}

// namespace is a guarded package walk such as java.lang.System
type namespace struct {
	r    *Runtime
	path string
}

func (n *namespace) Get(key string) goja.Value {
	name := key
	if n.path != "" {
		name = n.path + "." + key
	}
	if isClassName(key) {
		return n.r.resolve(name)
	}
	return n.r.vm.NewDynamicObject(&namespace{r: n.r, path: name})
}

func (n *namespace) Set(key string, val goja.Value) bool { return false }
func (n *namespace) Has(key string) bool                 { return false }
func (n *namespace) Delete(key string) bool              { return false }
func (n *namespace) Keys() []string                      { return nil }

func isClassName(segment string) bool {
	r, _ := utf8.DecodeRuneInString(segment)
	return unicode.IsUpper(r)
}

// exportValue converts goja value to Go value
func exportValue(val goja.Value) interface{} {
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil
	}
	return val.Export()
}

var engineInfo = sync.OnceValue(func() string {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if dep.Path != gojaModule {
				continue
			}
			version = dep.Version
			if dep.Replace != nil {
				version = dep.Replace.Version
			}
		}
	}
	return "goja " + version + " (ECMAScript 5.1)"
})

// EngineInfo describes the JavaScript engine for logs and diagnostics
func EngineInfo() string {
	return engineInfo()
}
