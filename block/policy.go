package block

// Policy describes how blocks in a category combine across sources.
type Policy struct {
	// Mergeable categories allow multiple sources to contribute to the same key; their bodies are deep-merged.
	// Non-mergeable categories require exactly one owning source per key.
	Mergeable bool

	// AllowOverride permits a later scalar value to replace an earlier, unequal one during a merge. This is a
	// property of the whole category, never of individual values.
	AllowOverride bool
}

type keyShape int

const (
	// shapeTypeLabel blocks are addressed category.type.label, e.g. resource.aws_vpc.main.
	shapeTypeLabel keyShape = iota
	// shapeLabel blocks are addressed category.label, e.g. variable.region.
	shapeLabel
	// shapeBare blocks are the category itself, e.g. the terraform settings block.
	shapeBare
)

var categoryShapes = map[string]keyShape{
	"resource":  shapeTypeLabel,
	"data":      shapeTypeLabel,
	"variable":  shapeLabel,
	"output":    shapeLabel,
	"module":    shapeLabel,
	"provider":  shapeLabel,
	"terraform": shapeBare,
	"locals":    shapeBare,
}

var categoryPolicies = map[string]Policy{
	"terraform": {Mergeable: true},
	"provider":  {Mergeable: true},
	"locals":    {Mergeable: true},
}

// PolicyFor returns the merge policy for the given category. Categories without an explicit policy are
// non-mergeable, which is the safe default: unknown categories behave like resources.
func PolicyFor(category string) Policy {
	return categoryPolicies[category]
}
