// Package arcade is a minimal HTTP client for ArcadeDB's command API.
//
// ArcadeDB is reached over its REST interface: commands are POSTed to
// /api/v1/command/{database} with basic auth and a JSON body carrying the
// SQL text and a params map. Values always travel in params, never spliced
// into the command text, so user-supplied strings cannot alter the command.
package arcade
