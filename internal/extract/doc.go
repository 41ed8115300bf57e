// Package extract pulls values out of raw Spotify response bodies.
//
// # Textual scanner
//
// [Field] and [Name] locate values by literal search patterns instead of parsing JSON. They depend on the exact
// whitespace style of the endpoint being read: the accounts service returns compact JSON ("key":"value") while the
// player endpoints return pretty-printed JSON ("key" : value). [Pattern] encodes that convention per key.
//
// Values always run to the next double quote, so unquoted numbers and booleans come back as their raw text up to
// that quote (for example `65000,\n  `). [Int] and [Bool] read the leading token of such text.
//
// # Structural reader
//
// [Snapshot] reads the currently-playing payload by path with gjson (item.name, item.artists.0.name,
// item.album.name) and does not care about formatting. [ScanSnapshot] produces the same [models.Playback] with the
// textual scanner and the positional name constants [PosTrack], [PosAlbum] and [PosArtist].
package extract
