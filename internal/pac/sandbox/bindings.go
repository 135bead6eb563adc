package sandbox

import (
	"github.com/dop251/goja"
)

// helperScript exposes the PAC function names scripts call directly. Each
// one delegates to the bound helper object so the host can swap the
// implementation without touching the script contract.
const helperScript = `
function isPlainHostName(host) { return PacHelpers.isPlainHostName(host); }
function dnsDomainIs(host, domain) { return PacHelpers.dnsDomainIs(host, domain); }
function localHostOrDomainIs(host, hostdom) { return PacHelpers.localHostOrDomainIs(host, hostdom); }
function isResolvable(host) { return PacHelpers.isResolvable(host); }
function isInNet(host, pattern, mask) { return PacHelpers.isInNet(host, pattern, mask); }
function dnsResolve(host) { return PacHelpers.dnsResolve(host); }
function myIpAddress() { return PacHelpers.myIpAddress(); }
function dnsDomainLevels(host) { return PacHelpers.dnsDomainLevels(host); }
function shExpMatch(str, shexp) { return PacHelpers.shExpMatch(str, shexp); }
function weekdayRange() { return PacHelpers.weekdayRange.apply(null, arguments); }
function dateRange() { return PacHelpers.dateRange.apply(null, arguments); }
function timeRange() { return PacHelpers.timeRange.apply(null, arguments); }
function isResolvableEx(host) { return PacHelpers.isResolvableEx(host); }
function isInNetEx(host, prefix) { return PacHelpers.isInNetEx(host, prefix); }
function dnsResolveEx(host) { return PacHelpers.dnsResolveEx(host); }
function myIpAddressEx() { return PacHelpers.myIpAddressEx(); }
function sortIpAddressList(list) { return PacHelpers.sortIpAddressList(list); }
function getClientVersion() { return PacHelpers.getClientVersion(); }
`

// bindHelpers builds the helper object from explicit closures and binds it
// as a read-only, frozen global
func (r *Runtime) bindHelpers(h Helpers) error {
	vm := r.vm
	str := func(call goja.FunctionCall, i int) string { return argString(call.Argument(i)) }
	boolean := func(b bool) goja.Value { return vm.ToValue(b) }
	nullable := func(s string) goja.Value {
		if s == "" {
			return goja.Null()
		}
		return vm.ToValue(s)
	}

	funcs := map[string]func(goja.FunctionCall) goja.Value{
		"isPlainHostName": func(call goja.FunctionCall) goja.Value {
			return boolean(h.IsPlainHostName(str(call, 0)))
		},
		"dnsDomainIs": func(call goja.FunctionCall) goja.Value {
			return boolean(h.DNSDomainIs(str(call, 0), str(call, 1)))
		},
		"localHostOrDomainIs": func(call goja.FunctionCall) goja.Value {
			return boolean(h.LocalHostOrDomainIs(str(call, 0), str(call, 1)))
		},
		"isResolvable": func(call goja.FunctionCall) goja.Value {
			return boolean(h.IsResolvable(str(call, 0)))
		},
		"isInNet": func(call goja.FunctionCall) goja.Value {
			return boolean(h.IsInNet(str(call, 0), str(call, 1), str(call, 2)))
		},
		"dnsResolve": func(call goja.FunctionCall) goja.Value {
			return nullable(h.DNSResolve(str(call, 0)))
		},
		"myIpAddress": func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(h.MyIPAddress())
		},
		"dnsDomainLevels": func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(h.DNSDomainLevels(str(call, 0)))
		},
		"shExpMatch": func(call goja.FunctionCall) goja.Value {
			return boolean(h.ShExpMatch(str(call, 0), str(call, 1)))
		},
		"weekdayRange": func(call goja.FunctionCall) goja.Value {
			return boolean(h.WeekdayRange(argStrings(call)...))
		},
		"dateRange": func(call goja.FunctionCall) goja.Value {
			return boolean(h.DateRange(argStrings(call)...))
		},
		"timeRange": func(call goja.FunctionCall) goja.Value {
			return boolean(h.TimeRange(argStrings(call)...))
		},
		"isResolvableEx": func(call goja.FunctionCall) goja.Value {
			return boolean(h.IsResolvableEx(str(call, 0)))
		},
		"isInNetEx": func(call goja.FunctionCall) goja.Value {
			return boolean(h.IsInNetEx(str(call, 0), str(call, 1)))
		},
		"dnsResolveEx": func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(h.DNSResolveEx(str(call, 0)))
		},
		"myIpAddressEx": func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(h.MyIPAddressEx())
		},
		"sortIpAddressList": func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(h.SortIPAddressList(str(call, 0)))
		},
		"getClientVersion": func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(h.GetClientVersion())
		},
	}

	obj := vm.NewObject()
	for name, fn := range funcs {
		if err := obj.Set(name, fn); err != nil {
			return err
		}
	}

	if err := vm.GlobalObject().DefineDataProperty(HelperSurface, obj, goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_TRUE); err != nil {
		return err
	}
	if _, err := vm.RunString("Object.freeze(" + HelperSurface + ");"); err != nil {
		return err
	}

	r.helpers = obj
	return nil
}

// argString converts a script argument, treating null and undefined as empty
func argString(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}

func argStrings(call goja.FunctionCall) []string {
	out := make([]string, len(call.Arguments))
	for i, v := range call.Arguments {
		out[i] = argString(v)
	}
	return out
}
