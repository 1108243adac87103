package constants

type (
	APIStatus    string
	CachePrefix  string
	TaxonomyAxis string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixTaxonomy    CachePrefix = "TAX_"
	CachePrefixProjectStat CachePrefix = "PROJ_STAT_"
)

// TaxonomyAxis names the three hierarchical taxonomies scored per item.
const (
	AxisThreat TaxonomyAxis = "threat_type"
	AxisError  TaxonomyAxis = "error_type"
	AxisUAS    TaxonomyAxis = "uas_type"
)

// ValidAxes is consulted before any taxonomy lookup.
var ValidAxes = map[TaxonomyAxis]struct{}{
	AxisThreat: {},
	AxisError:  {},
	AxisUAS:    {},
}

// MaxLabelLength bounds a level-3 selection used for topic lookup.
const MaxLabelLength = 200

// TaxonomyLeafLevel is the most specific hierarchy level; only leaf
// selections drive training-topic lookup.
const TaxonomyLeafLevel = 3
