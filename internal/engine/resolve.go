package engine

// Resolution is the effective value of every customizable field.
type Resolution struct {
	Fields

	// CustomCategory is set when an override layer supplied the category, even
	// if it equals the template default.
	CustomCategory Optional[Category]
}

// Resolve applies instance ?? preference ?? base independently per field.
// Override values are passed through without validation.
func Resolve(base ActivityTemplate, preference, instance Overrides) Resolution {
	category := Coalesce(instance.Category, preference.Category)
	return Resolution{
		Fields: Fields{
			Title:       Coalesce(instance.Title, preference.Title).Or(base.Title),
			Description: Coalesce(instance.Description, preference.Description).Or(base.Description),
			Duration:    Coalesce(instance.Duration, preference.Duration).Or(base.Duration),
			Icon:        Coalesce(instance.Icon, preference.Icon).Or(base.Icon),
			Points:      Coalesce(instance.Points, preference.Points).Or(base.Points),
			Difficulty:  Coalesce(instance.Difficulty, preference.Difficulty).Or(base.Difficulty),
			Category:    category.Or(base.Category),
		},
		CustomCategory: category,
	}
}

// SystemOwnerKey partitions the global, system-default preferences.
const SystemOwnerKey = "system"

// OwnerStrategy picks the key preferences and instances are partitioned under.
type OwnerStrategy interface {
	OwnerKey() string
}

// Owner identifies a user or an anonymous session. A user id wins when both
// are set.
type Owner struct {
	UserID    string
	SessionID string
}

func (o Owner) OwnerKey() string {
	if o.UserID != "" {
		return "user:" + o.UserID
	}
	if o.SessionID != "" {
		return "session:" + o.SessionID
	}
	return SystemOwnerKey
}

type systemOwner struct{}

func (systemOwner) OwnerKey() string { return SystemOwnerKey }

// SystemOwner resolves against the global default partition.
var SystemOwner OwnerStrategy = systemOwner{}

// PreferenceIndex looks up the active preference of one owner by activity id.
type PreferenceIndex struct {
	byActivity map[string]Overrides
}

// NewPreferenceIndex keeps active preferences whose owner key matches owner.
// When several rows share an activity the most recently updated one wins.
func NewPreferenceIndex(owner OwnerStrategy, prefs []Preference) PreferenceIndex {
	key := SystemOwnerKey
	if owner != nil {
		key = owner.OwnerKey()
	}
	idx := PreferenceIndex{byActivity: map[string]Overrides{}}
	newest := map[string]Preference{}
	for _, p := range prefs {
		if !p.Active || p.OwnerKey != key {
			continue
		}
		if cur, ok := newest[p.ActivityID]; ok && cur.UpdatedAt.After(p.UpdatedAt) {
			continue
		}
		newest[p.ActivityID] = p
	}
	for id, p := range newest {
		idx.byActivity[id] = p.Overrides
	}
	return idx
}

// Lookup returns the owner's overrides for activityID, or an empty layer.
func (idx PreferenceIndex) Lookup(activityID string) Overrides {
	return idx.byActivity[activityID]
}
