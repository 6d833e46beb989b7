package recommend

import "fmt"

// recommendationPromptTemplate is the shared system instruction sent to every
// provider, parameterized only by the recommendation count.
const recommendationPromptTemplate = `You are a helpful music recommendation assistant.
Based on the criteria provided by the user like:
* genre,
* language,
* year or year range of publication,
* favorite or related artists,
* hints - keywords that help the AI like subgenre, style within genre etc.
Recommend %d songs. Rank them by your estimation how well a song or album can fit to the needs of the user.
Return a JSON object with a "recommendations" array where each entry has the keys
rank (%d for the strongest, 1 for the weakest recommendation), song_title, artist, album, year and reason.
Please make sure the songs really exist, for example:
- Justin Timberlake - Cry Me A River - is correct, because Justin Timberlake recorded a song Cry Me a River,
- Justin Timberlake - Crazy in Love - is incorrect, because Crazy in Love was recorded by Beyonce,
- Jubstin Timberbake - Mazy in Hove - is incorrect, because neither artist, nor the song exist
`

// RecommendationPrompt renders the system instruction for k songs.
func RecommendationPrompt(k int) string {
	return fmt.Sprintf(recommendationPromptTemplate, k, k)
}

// ValidationPrompts maps an attribute name to the system instruction of its
// input validator. Attributes without an entry are accepted unconditionally.
var ValidationPrompts = map[string]string{
	"genre": `You are a helpful input data validator for music genres.
Please verify if the user's entry is a valid music genre or style (e.g., rock, pop, jazz, electronic, indie, etc.).
Return only '1' if the entry is valid and '0' if not. Be lenient - accept general descriptions of music styles.`,

	"language": `You are a helpful input data validator for languages.
Please verify if the user's entry is a valid language or combination of languages (e.g., English, Spanish, multilingual, etc.).
Return only '1' if the entry is valid and '0' if not.`,

	"year": `You are a helpful input data validator for years/time periods.
Please verify if the user's entry is a valid year, decade, or time period for music (e.g., 2020, 1980s, 90s, 2000-2010, modern, after 2023, etc.).
Return only '1' if the entry is valid and '0' if not. Be lenient - accept decade ranges and descriptive periods.`,

	"favorite_artists": `You are a helpful input data validator for artist names.
Please verify if the user's entry contains valid artist or band names (e.g., "The Beatles", "Taylor Swift, Drake", etc.).
Return only '1' if the entry is valid and '0' if not. Accept multiple artists separated by commas.`,

	"hints": `You are a helpful input data validator for music preferences.
Please verify if the user's entry describes valid music characteristics to avoid (e.g., "no heavy metal", "avoid slow songs", "no explicit lyrics", etc.).
Return only '1' if the entry is valid and '0' if not. Be lenient - accept any reasonable music-related restrictions.`,
}

// playlistNamePrompt instructs the naming model.
const playlistNamePrompt = `You are a helpful assistant that receives as input the attributes
passed to an AI music recommendation system and comes up with a name for
a playlist setup with these songs for the user`

// playlistNameRequestTemplate carries the collected attributes to the model.
const playlistNameRequestTemplate = `Based on the following attributes:
%s
Please come up with some short and concise name for a YouTube playlist.
Pick maximum 3 keywords, don't force yourself to put all of the attributes into the name.
Return only the name itself.`
