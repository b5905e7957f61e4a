// Package model defines the Track entity that flows through the download
// pipeline.
//
// # Track
//
// A Track describes one candidate returned by a resolver or one confirmed
// download target:
//
//	track := model.NewTrack(0, "Foo", "Song One", "3:00", "http://x/a.mp3")
//	fmt.Println(track.Filename())   // "Foo - Song One.mp3"
//	fmt.Println(track.LedgerLine()) // "Foo - Song One\t3:00\thttp://x/a.mp3"
//
// # Ledger lines
//
// Downloaded-log lines can be fed back in without resolving again:
//
//	track, err := model.ParseLedgerLine(line)
package model
