package meta

// Profile describes one flavour of export: which headers are recognised, how
// they are compared and whether only rows of running campaigns are kept.
type Profile struct {
	Name          string
	Vocabulary    Vocabulary
	Match         HeaderMatch
	RequireActive bool
}

const (
	ProfileAdsManager      = "ads-manager"
	ProfileActiveCampaigns = "active-campaigns"
)

// Profiles returns the built-in profiles. The first one is the default.
func Profiles() []Profile {
	vocab := DefaultVocabulary()

	return []Profile{
		{
			Name:       ProfileAdsManager,
			Vocabulary: vocab,
			Match:      MatchNormalized,
		},
		{
			Name:          ProfileActiveCampaigns,
			Vocabulary:    vocab,
			Match:         MatchNormalized,
			RequireActive: true,
		},
	}
}

// LookupProfile finds a built-in profile by name.
func LookupProfile(name string) (Profile, bool) {
	for _, p := range Profiles() {
		if p.Name == name {
			return p, true
		}
	}

	return Profile{}, false
}
