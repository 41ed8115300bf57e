// Package services implements the outbound HTTP side of the client.
//
// # Service Interface
//
// [Service] lists the Spotify calls the CLI makes. [SpotifyService] implements it on top of [APIService].
//
// # Response Buffer
//
// Every request reads its body into a fresh [ResponseBuffer] owned by that request. The buffer is bounded by
// http.max_response_bytes; a body that does not fit fails with [shared.ErrResponseTooLarge] rather than being
// cut short.
//
// # Token Endpoint
//
// Authorization-code and refresh-token grants are form-encoded POSTs to the accounts service. The raw compact
// JSON reply is returned untouched so that the tasks package can pull access_token and refresh_token out with
// the field extractor. [oauth2.Config] is only used to build the authorize URL.
//
// # Error Handling
//
//   - [shared.ErrNetwork] : transport failure
//   - [shared.ErrTimeout] : request deadline exceeded
//   - [shared.ErrResponseTooLarge] : body exceeded the buffer
//   - [shared.ErrAPIRequest] : non-2xx status, via [APIResponse.Err]
//
// Requests pass through a [rate.Limiter] so scripted loops stay polite.
package services
