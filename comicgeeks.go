// Package comicgeeks is a client library for the League of Comic Geeks
// comics-metadata API.
//
// The client wraps every call in a shared pipeline: a fingerprint-keyed
// response cache, a client-side rate limiter and an HTTP dispatch step that
// classifies every failure into the errors package taxonomy. Raw responses
// are normalized into the typed records defined by the schema package.
//
// Usage:
//
//	client, err := comicgeeks.NewClient(comicgeeks.Config{
//		ClientID:     "...",
//		ClientSecret: "...",
//	})
//	if err != nil {
//		// handle
//	}
//	token, err := client.GenerateAccessToken(ctx)
//	results, err := client.Search(ctx, "Blackest Night")
package comicgeeks

// Version is the library version, reported in the User-Agent header.
const Version = "0.6.0"

// defaultBaseURL is the root of the upstream API.
const defaultBaseURL = "https://leagueofcomicgeeks.com/api"
