package probe

import "runtime"

// aslrDisablers maps a GOOS to the command prefix that runs valgrind with
// address-space randomization disabled. Platforms without an entry cannot
// disable ASLR and fall back to plain valgrind.
var aslrDisablers = map[string]func(arch string) []string{
	"linux": func(arch string) []string {
		return []string{"setarch", arch, "-R", "valgrind"}
	},
	"freebsd": func(string) []string {
		return []string{"proccontrol", "-m", "aslr", "-s", "disable", "valgrind"}
	},
}

// ValgrindArgv returns the argv prefix for invoking valgrind. Unless
// allowASLR is set, address-space randomization is disabled where the
// platform supports it, since ASLR perturbs the cache simulation.
func ValgrindArgv(arch string, allowASLR bool) []string {
	return valgrindArgv(runtime.GOOS, arch, allowASLR)
}

func valgrindArgv(goos, arch string, allowASLR bool) []string {
	if !allowASLR {
		if disabler, ok := aslrDisablers[goos]; ok {
			return disabler(arch)
		}
	}

	return []string{"valgrind"}
}
