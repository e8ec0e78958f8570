// Package conversation mocks the HTTP requests one action makes and checks
// them against an ordered list of expectations.
//
// Run installs a fake transport, runs the action, answers every intercepted
// request with the response declared by the next expectation, and afterwards
// verifies the whole conversation:
//
//	resp, err := conversation.Run(ctx,
//	    conversation.RequestShorthand("GET http://api.example.com/users"),
//	    expect.Single(expect.Expectation{
//	        Request:  expect.Req("GET http://api.example.com/users"),
//	        Response: &expect.ResponseSpec{StatusCode: 200, Body: []any{}},
//	    }),
//	    conversation.ToYieldResponse(expect.Status(200)),
//	)
//
// Expectations are consumed strictly in order. A request that does not
// satisfy its expectation is answered with a bare 200 so the action can
// finish, and the mismatch becomes the result of Run. A request arriving
// after every expectation was used is answered the same way and ends the
// invocation early; it is reported as an excess exchange. Expectations no
// request reached are reported as missing.
//
// When several problems occur the first captured interceptor error wins,
// then a failure of the action itself, then the conversation diff.
//
// Each call to Run owns its queue, conversation and captured error. Runs
// using WithDefaultTransport must not overlap.
package conversation
