package features

// Stage 描述特性开关所处的生命周期阶段。
type Stage string

const (
	StageStable       Stage = "stable"
	StageBeta         Stage = "beta"
	StageExperimental Stage = "experimental"
	StageDeprecated   Stage = "deprecated"
)

// Spec describes a feature flag exposed by the CLI.
type Spec struct {
	Key            string
	Stage          Stage
	DefaultEnabled bool
	Summary        string
}

// Specs 列出 chatwin 支持的全部特性开关。
var Specs = []Spec{
	{Key: "live_feed", Stage: StageStable, DefaultEnabled: true, Summary: "follow the jsonl feed and append new messages"},
	{Key: "markdown", Stage: StageBeta, DefaultEnabled: false, Summary: "render message bodies as markdown"},
	{Key: "exact_anchoring", Stage: StageBeta, DefaultEnabled: false, Summary: "compensate scroll with measured heights"},
	{Key: "debug_pages", Stage: StageExperimental, DefaultEnabled: false, Summary: "tint each mounted page"},
}

var known = func() map[string]Spec {
	m := make(map[string]Spec, len(Specs))
	for _, spec := range Specs {
		m[spec.Key] = spec
	}
	return m
}()

// IsKnown reports whether the feature key is recognized.
func IsKnown(key string) bool {
	_, ok := known[key]
	return ok
}

// StageFor returns the lifecycle stage for a feature, defaulting to experimental.
func StageFor(key string) Stage {
	if spec, ok := known[key]; ok {
		return spec.Stage
	}
	return StageExperimental
}

// DefaultEnabled reports the default value for the given feature key.
func DefaultEnabled(key string) bool {
	if spec, ok := known[key]; ok {
		return spec.DefaultEnabled
	}
	return false
}

// Resolve 返回 overrides 中显式设置的值，未设置时回退到默认值。
func Resolve(overrides map[string]bool, key string) bool {
	if v, ok := overrides[key]; ok {
		return v
	}
	return DefaultEnabled(key)
}
