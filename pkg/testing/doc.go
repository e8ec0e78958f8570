// Package testing adapts conversation.Run to Go tests.
//
// Expect runs a subject against an ordered list of expected exchanges and
// fails the test with the rendered conversation diff when the traffic does
// not match:
//
//	func TestFetchUser(t *testing.T) {
//	    resp := mttesting.Expect(t,
//	        conversation.RequestShorthand("GET http://api.example.com/users/1"),
//	        expect.Single(expect.Expectation{
//	            Request:  expect.Req("GET http://api.example.com/users/1"),
//	            Response: &expect.ResponseSpec{StatusCode: 200, Body: map[string]any{"id": 1}},
//	        }),
//	        conversation.ToYieldResponse(expect.Status(200)),
//	    )
//	    _ = resp
//	}
//
// Expectations may also be kept in YAML or JSON fixture files and loaded
// with ExpectFile.
//
// # Failure Output
//
// A mismatch reports the conversation as HTTP/1.1 text. Unexpected
// requests are marked "// should be removed:", unconsumed expectations
// "// missing:", and mismatched fields carry an inline "// should be ..."
// annotation.
package testing
