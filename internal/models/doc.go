// Package models defines the domain entities shared by the token store, the Spotify client and the console formatter.
//
//   - [TokenPair] : the access/refresh credential pair issued by the OAuth provider
//   - [Playback] : a snapshot of the player state rebuilt on every "now playing" query
//   - [Device] : a Spotify Connect playback device
//
// None of these are persisted except [TokenPair], which the tokens package stores as two key=value lines.
package models
