package engine

// Optional holds a value that may be absent. The zero value is absent.
type Optional[T any] struct {
	value T
	set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

// FromPtr converts a nullable pointer into an Optional.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

func (o Optional[T]) IsSet() bool { return o.set }

func (o Optional[T]) Get() (T, bool) { return o.value, o.set }

// Or returns the held value, or fallback when absent.
func (o Optional[T]) Or(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

// Ptr returns a pointer to a copy of the value, or nil when absent.
func (o Optional[T]) Ptr() *T {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

// Coalesce returns the first set layer, in argument order.
func Coalesce[T any](layers ...Optional[T]) Optional[T] {
	for _, l := range layers {
		if l.set {
			return l
		}
	}
	return None[T]()
}

// Overrides is one layer of optional customizable fields.
type Overrides struct {
	Title       Optional[string]
	Description Optional[string]
	Duration    Optional[string]
	Icon        Optional[string]
	Points      Optional[int]
	Difficulty  Optional[Difficulty]
	Category    Optional[Category]
}

// IsEmpty reports whether no field is set.
func (o Overrides) IsEmpty() bool {
	return !o.Title.set && !o.Description.set && !o.Duration.set && !o.Icon.set &&
		!o.Points.set && !o.Difficulty.set && !o.Category.set
}

// Merge layers newer on top of o, field by field.
func (o Overrides) Merge(newer Overrides) Overrides {
	return Overrides{
		Title:       Coalesce(newer.Title, o.Title),
		Description: Coalesce(newer.Description, o.Description),
		Duration:    Coalesce(newer.Duration, o.Duration),
		Icon:        Coalesce(newer.Icon, o.Icon),
		Points:      Coalesce(newer.Points, o.Points),
		Difficulty:  Coalesce(newer.Difficulty, o.Difficulty),
		Category:    Coalesce(newer.Category, o.Category),
	}
}
