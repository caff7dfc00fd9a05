package catalog

// Output field names. The order of OutputFields is the column order of the
// published dataset.
const (
	FieldGameTitle       = "game_title"
	FieldMetascore       = "metascore"
	FieldPrice           = "price"
	FieldReviewSummary   = "steam_review_summary"
	FieldReviewCount     = "steam_review_count"
	FieldReleaseDate     = "release_date"
	FieldDeveloper       = "developer"
	FieldPublisher       = "publisher"
	FieldGenres          = "genres"
	FieldTags            = "steam_tags"
	FieldPlatform        = "platform"
	FieldMetacriticURL   = "metacritic_url"
	FieldSteamURL        = "steam_url"
	FieldMatchConfidence = "match_confidence"
	FieldCombinedScore   = "combined_score"
)

// OutputFields lists the published columns in order.
var OutputFields = []string{
	FieldGameTitle,
	FieldMetascore,
	FieldPrice,
	FieldReviewSummary,
	FieldReviewCount,
	FieldReleaseDate,
	FieldDeveloper,
	FieldPublisher,
	FieldGenres,
	FieldTags,
	FieldPlatform,
	FieldMetacriticURL,
	FieldSteamURL,
	FieldMatchConfidence,
	FieldCombinedScore,
}

// MergeFields lists the attribute fields resolved by precedence.
var MergeFields = []string{
	FieldMetascore,
	FieldPrice,
	FieldReviewSummary,
	FieldReviewCount,
	FieldReleaseDate,
	FieldDeveloper,
	FieldPublisher,
	FieldGenres,
	FieldTags,
	FieldPlatform,
}

// IsMergeField reports whether name is resolved by the precedence table.
func IsMergeField(name string) bool {
	for _, f := range MergeFields {
		if f == name {
			return true
		}
	}
	return false
}
