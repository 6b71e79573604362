package entity

// Kind names a catalog collection.
type Kind string

const (
	KindUnknown     Kind = ""
	KindGuidance    Kind = "guidance"
	KindMusic       Kind = "music"
	KindBoosters    Kind = "boosters"
	KindMeditations Kind = "meditations"
)

func (k Kind) String() string { return string(k) }

// Ensure returns k when it is a known kind and KindUnknown otherwise.
func (k Kind) Ensure() Kind {
	switch k {
	case KindGuidance, KindMusic, KindBoosters, KindMeditations:
		return k
	default:
		return KindUnknown
	}
}
