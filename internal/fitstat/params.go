package fitstat

import "strings"

// ValidParameters are the fit statistic names accepted by InputFitStatistics.
var ValidParameters = []string{
	"_RASE_", "_NObs_", "_GINI_", "_GAMMA_", "_MCE_", "_ASE_", "_MCLL_",
	"_KS_", "_KSPostCutoff_", "_DIV_", "_TAU_", "_KSCut_", "_C_",
}

// FormatParameter adds the surrounding underscores SAS uses for statistic
// names, so "RASE" and "_RASE_" are equivalent.
func FormatParameter(name string) string {
	name = strings.TrimSpace(name)
	if !strings.HasPrefix(name, "_") {
		name = "_" + name
	}
	if !strings.HasSuffix(name, "_") || len(name) == 1 {
		name += "_"
	}
	return name
}

// IsValidParameter reports whether name, after formatting, is a known
// fit statistic. Matching is case-insensitive.
func IsValidParameter(name string) (string, bool) {
	formatted := FormatParameter(name)
	for _, p := range ValidParameters {
		if strings.EqualFold(p, formatted) {
			return p, true
		}
	}
	return "", false
}
