package profiles

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

// UpsertProfileInput replaces every field of the caller's profile. Nil or empty clears a field.
type UpsertProfileInput struct {
	EcoGoals           *string
	ContentPreferences *string
	ChallengeLevels    *string
	AvatarURL          *string
}

type PatchProfileInput struct {
	EcoGoals           Optional[string]
	ContentPreferences Optional[string]
	ChallengeLevels    Optional[string]
	AvatarURL          Optional[string]
}

func (in PatchProfileInput) empty() bool {
	return !in.EcoGoals.IsSpecified() &&
		!in.ContentPreferences.IsSpecified() &&
		!in.ChallengeLevels.IsSpecified() &&
		!in.AvatarURL.IsSpecified()
}
