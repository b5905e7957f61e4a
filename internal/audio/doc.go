// Package audio provides post-download processing of audio files: ID3 tag
// writing and session playlist generation.
//
// # ID3 Tagging
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags("/home/me/Downloads/Foo - Song One.mp3", track)
//
// Only the artist (TPE1) and title (TIT2) frames are written.
//
// # Playlist Generation
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist(tracks)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
package audio
