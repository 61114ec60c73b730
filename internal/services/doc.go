// Package services defines the [Classifier] interface and its providers.
//
// # Gemini
//
// [GeminiGateway] posts the upload, base64 encoded inline, together with a
// fixed instruction to {base}/v1beta/models/{model}:generateContent and asks
// for a JSON response matching a {"top3": [{genre, probability}]} schema.
//
// Authentication is either an API key (x-goog-api-key header) or an OAuth2
// access token wrapped in a static [oauth2.TokenSource]. Requests are paced
// client-side with a [rate.Limiter].
//
// # Offline mock
//
// [MockGateway] waits a fixed delay and returns Indie Rock / Alternative /
// Shoegaze. [NewClassifier] selects it whenever no credential is configured.
//
// # Error Handling
//
// Every failure (transport, non-2xx status, missing candidate, undecodable
// JSON, or anything other than exactly three genres) wraps
// [shared.ErrInvalidResponse]. Callers show one generic message and do not retry.
package services
