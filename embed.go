package gridplan

import "embed"

// EmbeddedAssets contains the browser assets served under /public/:
// app.js (drag/drop, uploads, inline edits) and app.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
