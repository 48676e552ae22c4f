package data

import _ "embed"

// Thesaurus is the built-in synonym lexicon in KDL.
//
//go:embed data/thesaurus.kdl
var Thesaurus string

//go:embed data/app.js
var AppJS string
