package metrics

const (
	LabelResource = "resource"
	LabelVersion  = "version"
	LabelOutcome  = "outcome"
)

const (
	ResourceUndefined = "undefined"
	ResourceContract  = "contract"
)
