package matching

// Score weights for request fields. More specific checks weigh more.
const (
	// ScoreMethod is the score for a method match.
	ScoreMethod = 10

	// ScorePathExact is the score for an exact path match.
	ScorePathExact = 15

	// ScorePathNamedParams is the score for a path with named parameters match.
	ScorePathNamedParams = 12

	// ScorePathWildcard is the score for a wildcard path match.
	ScorePathWildcard = 10

	// ScoreHost is the score for a host match.
	ScoreHost = 10

	// ScorePort is the score for a port match.
	ScorePort = 5

	// ScoreEncrypted is the score for a scheme (http or https) match.
	ScoreEncrypted = 5

	// ScoreHeader is the score for each header match.
	ScoreHeader = 10
)

// Score weights for body checks.
const (
	// ScoreBody is the score for a satisfied body.
	ScoreBody = 25

	// ScoreBodyPattern is the score for a body regex pattern match.
	ScoreBodyPattern = 22

	// ScoreJSONPathCondition is the score per matched JSONPath condition.
	ScoreJSONPathCondition = 15

	// ScoreWhere is the score for a where expression that evaluated to true.
	ScoreWhere = 20
)

// ScoreStatus is the score for a response status code match.
const ScoreStatus = 10
