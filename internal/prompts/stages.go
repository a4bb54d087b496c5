package prompts

import (
	"fmt"
	"strings"
)

// Stage is one named step of the generation sequence.
type Stage string

const (
	StageSRS        Stage = "srs"
	StageFranca     Stage = "franca"
	StageARXML      Stage = "arxml"
	StageCPP        Stage = "cpp"
	StageKotlin     Stage = "kotlin"
	StageRust       Stage = "rust"
	StagePython     Stage = "python"
	StageTest       Stage = "test"
	StageMock       Stage = "mock"
	StageCompliance Stage = "misra"
)

// CacheSuffix marks session keys that hold generated stage output.
const CacheSuffix = "_output"

var allStages = []Stage{
	StageSRS, StageFranca, StageARXML,
	StageCPP, StageKotlin, StageRust, StagePython,
	StageTest, StageMock, StageCompliance,
}

// AllStages lists every stage in pipeline order.
func AllStages() []Stage {
	return append([]Stage(nil), allStages...)
}

// CacheKey is the session key under which the stage output is memoized.
func (s Stage) CacheKey() string {
	return string(s) + CacheSuffix
}

// ParseStage accepts a stage id or its cache key.
func ParseStage(raw string) (Stage, error) {
	s := Stage(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), CacheSuffix))
	for _, known := range allStages {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q", raw)
}

// Compliance is a coding standard whose rules are embedded into prompts.
type Compliance string

const (
	ComplianceMISRACpp2023 Compliance = "MISRA C++:2023"
	ComplianceMISRAC2012   Compliance = "MISRA C:2012"
	ComplianceAUTOSAR14    Compliance = "AUTOSAR C++14"
)

// ComplianceStandard describes one selectable standard.
type ComplianceStandard struct {
	Name        Compliance `json:"name"`
	Description string     `json:"description"`
	Rules       []string   `json:"rules"`
}

var standards = []ComplianceStandard{
	{
		Name:        ComplianceMISRACpp2023,
		Description: "Latest MISRA C++ guidelines for safety-critical automotive software.",
		Rules: []string{
			"Use 'final' on classes, 'const' on all possible variables",
			"F suffix on float literals (e.g., 28.0F)",
			"No C-style casts, use static_cast and dynamic_cast only",
			"Single return per function (Rule 15.5.1)",
			"All function parameters must be named (Rule 8.4.4)",
			"No dynamic memory after initialization (Rule 18.0.1)",
			"No implicit type conversions (Rule 5.0.1)",
			"Use fixed-width integers (uint8_t, uint16_t, etc.)",
			"Add MISRA rule reference comments on each compliance point",
		},
	},
	{
		Name:        ComplianceMISRAC2012,
		Description: "C-language safety standard for embedded automotive ECU software.",
		Rules: []string{
			"No dynamic memory allocation (malloc/free forbidden)",
			"No recursion allowed",
			"All loops must have a fixed bound",
			"No pointer arithmetic except array indexing",
			"All variables must be initialized at declaration",
			"No implicit type conversions between signed/unsigned",
			"Use only approved standard library functions",
			"No function pointers (use switch-case dispatch)",
			"All #include guards mandatory",
			"Add MISRA C rule reference comments",
		},
	},
	{
		Name:        ComplianceAUTOSAR14,
		Description: "AUTOSAR Adaptive Platform coding guidelines (SOME/IP, ara::com).",
		Rules: []string{
			"Use AUTOSAR ara::com API for service communication",
			"Prefer ara::core::Result over exceptions",
			"Use ara::core::Future for async operations",
			"Follow SOME/IP service discovery patterns",
			"Use smart pointers (unique_ptr, shared_ptr), no raw new/delete",
			"Use constexpr and noexcept where applicable",
			"Namespace must follow AUTOSAR adaptive package naming",
			"Service skeleton/proxy pattern for all interfaces",
			"Add AUTOSAR guideline reference comments",
		},
	},
}

// Standards lists the supported compliance standards.
func Standards() []ComplianceStandard {
	return append([]ComplianceStandard(nil), standards...)
}

// Standard looks up a compliance standard by name.
func Standard(name Compliance) (ComplianceStandard, bool) {
	for _, s := range standards {
		if s.Name == name {
			return s, true
		}
	}
	return ComplianceStandard{}, false
}

// RulesText renders the rule list the way it is embedded into prompts.
func (s ComplianceStandard) RulesText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s rules to follow:", s.Name)
	for _, r := range s.Rules {
		b.WriteString("\n- ")
		b.WriteString(r)
	}
	return b.String()
}

// Language is a code-generation target.
type Language string

const (
	LanguageCpp    Language = "C++14"
	LanguageKotlin Language = "Kotlin"
	LanguageRust   Language = "Rust"
	LanguagePython Language = "Python"
)

// LanguageInfo pairs a language with the stage that generates it.
type LanguageInfo struct {
	Name        Language `json:"name"`
	Stage       Stage    `json:"stage"`
	Description string   `json:"description"`
}

var languages = []LanguageInfo{
	{Name: LanguageCpp, Stage: StageCPP, Description: "SoA backend service (vsomeip)"},
	{Name: LanguageKotlin, Stage: StageKotlin, Description: "Android Automotive HMI ViewModel"},
	{Name: LanguageRust, Stage: StageRust, Description: "Async tokio service"},
	{Name: LanguagePython, Stage: StagePython, Description: "Prototyping service"},
}

// Languages lists the supported targets in canonical order.
func Languages() []LanguageInfo {
	return append([]LanguageInfo(nil), languages...)
}

// LanguageStage returns the code stage for a language.
func LanguageStage(l Language) (Stage, bool) {
	for _, info := range languages {
		if info.Name == l {
			return info.Stage, true
		}
	}
	return "", false
}

// Sequence returns the stages a pipeline runs for the selected languages:
// requirements, both interface definitions, one code stage per language in
// canonical order, then tests, mock service and the compliance report.
func Sequence(selected []Language) []Stage {
	want := make(map[Language]bool, len(selected))
	for _, l := range selected {
		want[l] = true
	}

	seq := []Stage{StageSRS, StageFranca, StageARXML}
	for _, info := range languages {
		if want[info.Name] {
			seq = append(seq, info.Stage)
		}
	}
	return append(seq, StageTest, StageMock, StageCompliance)
}
