package annotation

// LabelCode is a normalized categorical gaze direction.
type LabelCode string

const (
	LabelLeft   LabelCode = "left"
	LabelRight  LabelCode = "right"
	LabelCenter LabelCode = "center"
	LabelAway   LabelCode = "away"
	LabelNone   LabelCode = "none"
)

// codeTable maps the coder's raw keystroke codes to labels. The keys mirror
// the annotation tool's bindings: a/d/s for left/right/center and the space
// bar for away.
var codeTable = map[string]LabelCode{
	"a":     LabelLeft,
	"d":     LabelRight,
	"s":     LabelCenter,
	"space": LabelAway,
}

// MapCode resolves a raw annotation code to its label. The mapping is total:
// unknown and empty codes resolve to LabelNone so unlabeled frames survive
// conversion instead of failing it.
func MapCode(raw string) LabelCode {
	if label, ok := codeTable[raw]; ok {
		return label
	}
	return LabelNone
}
