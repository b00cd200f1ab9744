// Package canon turns raw upstream URLs into the canonical form stored in
// the urls table, and plans canonical homepage rows for packages that have
// none yet.
//
// The canonical form has no scheme, no "www." prefix, no fragment, no
// trailing slash and no ".git" suffix:
//
//	https://www.GitHub.com/curl/curl.git/  ->  github.com/curl/curl
package canon
