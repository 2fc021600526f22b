// package models defines the data model for the library migration tool.
//
// A library run is built from LibraryEntry pairs fetched from MangaDex,
// enriched into Manga values, and partitioned by external identifier before
// being handed to a sink (file writer or AniList importer).
package models
