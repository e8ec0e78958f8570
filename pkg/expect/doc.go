// Package expect defines how a test declares the requests it expects an
// action to issue and the responses to deliver for them.
//
// An Expectation pairs an optional RequestSpec with an optional ResponseSpec.
// Both accept loosely typed input:
//   - a RequestSpec may be a shorthand string such as "GET /foo" or
//     "POST https://api.example.com/items", or an object with method, url,
//     host, port, encrypted, headers and body
//   - a ResponseSpec may be a bare status code, or an object with statusCode,
//     statusMessage, headers and body
//
// Expectations is a closed variant resolved once at entry:
//
//	expect.Shorthand("GET /")                     // one request, default response
//	expect.Single(expect.Expectation{...})        // exactly one request
//	expect.Batch(first, second, third)            // an ordered conversation
//
// Expectation Files:
//
// Expectations can be kept in YAML or JSON files. A file holds a single
// expectation, a list of them, or an object with an "expectations" list:
//
//	- request: GET http://www.google.com/
//	  response:
//	    headers:
//	      Content-Type: text/plain
//	    body: hello
//	- request: GET http://www.google.com/
//	  response: 204
//
// Files are checked against an embedded JSON schema before decoding, and
// LoadFiles expands ** globs.
package expect
