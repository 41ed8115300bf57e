// Package tasks orchestrates the token lifecycle and the player commands on top of the token store and the Spotify service.
//
// # Core Operations
//
//  1. [Engine.Exchange] : authorization code → token pair, written to the store
//  2. [Engine.Refresh] : refresh token → new access token; the stored refresh token is kept as is
//  3. [Engine.NowPlaying] : currently-playing snapshot
//  4. [Engine.Change] : skip next/previous on a given or looked-up device
//  5. [Engine.Devices] : list playback devices
//
// # Refresh and Retry
//
// Authenticated calls check the raw body for the expiry marker. On a hit the engine runs [Engine.Refresh] and
// retries the call at most [MaxRefreshRetries] times; a second expiry ends with [shared.ErrRetryExhausted].
//
// # Progress Reporting
//
// An optional callback receives a [ProgressUpdate] for each step. The CLI logs them at debug level.
package tasks
