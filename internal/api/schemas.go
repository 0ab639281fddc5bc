package api

// Response schemas, one per endpoint. They pin down the envelope and the
// fields the client actually branches on; unknown extra fields pass.

func envelopeOf(data map[string]any) map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"success", "data"},
		"properties": map[string]any{
			"success": map[string]any{"type": "boolean"},
			"message": map[string]any{"type": "string"},
			"data":    data,
		},
	}
}

var localizedPair = map[string]any{
	"type":     "object",
	"required": []any{"ar"},
	"properties": map[string]any{
		"ar": map[string]any{"type": "string"},
		"en": map[string]any{"type": "string"},
	},
}

var lessonObject = map[string]any{
	"type":     "object",
	"required": []any{"id", "title", "videoUrl"},
	"properties": map[string]any{
		"id":            map[string]any{"type": "string"},
		"title":         map[string]any{"type": "string"},
		"titleEn":       map[string]any{"type": "string"},
		"videoUrl":      map[string]any{"type": "string"},
		"videoDuration": map[string]any{"type": "integer", "minimum": 0},
		"status":        map[string]any{"enum": []any{"draft", "published", "archived"}},
		"objectives":    map[string]any{"type": "array", "items": localizedPair},
	},
}

var lessonSchema = &schema{
	Name:       "lesson",
	Definition: envelopeOf(lessonObject),
}

var lessonListSchema = &schema{
	Name: "lesson-list",
	Definition: envelopeOf(map[string]any{
		"type":  "array",
		"items": lessonObject,
	}),
}

var questionListSchema = &schema{
	Name: "question-list",
	Definition: envelopeOf(map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":     "object",
			"required": []any{"id", "questionType", "questionText"},
			"properties": map[string]any{
				"id":           map[string]any{"type": "string"},
				"lessonId":     map[string]any{"type": "string"},
				"questionType": map[string]any{"enum": []any{"multiple_choice", "true_false"}},
				"level":        map[string]any{"enum": []any{"high", "medium", "special_needs"}},
				"questionText": map[string]any{"type": "string"},
				"points":       map[string]any{"type": "integer", "minimum": 0},
				"options": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":     "object",
						"required": []any{"value", "ar"},
						"properties": map[string]any{
							"value": map[string]any{"type": "string"},
							"ar":    map[string]any{"type": "string"},
							"en":    map[string]any{"type": "string"},
						},
					},
				},
				"hints": map[string]any{"type": "array", "items": localizedPair},
			},
		},
	}),
}

var progressObject = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":                 map[string]any{"type": "string"},
		"lessonId":           map[string]any{"type": "string"},
		"videoProgress":      map[string]any{"type": "integer", "minimum": 0},
		"videoWatched":       map[string]any{"type": "boolean"},
		"questionsAttempted": map[string]any{"type": "integer", "minimum": 0},
		"questionsCorrect":   map[string]any{"type": "integer", "minimum": 0},
		"score":              map[string]any{"type": "number"},
		"timeSpent":          map[string]any{"type": "integer", "minimum": 0},
	},
}

var progressSchema = &schema{
	Name:       "student-progress",
	Definition: envelopeOf(progressObject),
}

var progressListSchema = &schema{
	Name: "progress-list",
	Definition: envelopeOf(map[string]any{
		"type":  "array",
		"items": progressObject,
	}),
}

var lessonProgressSchema = &schema{
	Name: "lesson-progress",
	Definition: envelopeOf(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"progress": map[string]any{
				"anyOf": []any{progressObject, map[string]any{"type": "null"}},
			},
			"answeredQuestions": map[string]any{"type": "array"},
		},
	}),
}

var answerResultSchema = &schema{
	Name: "answer-result",
	Definition: envelopeOf(map[string]any{
		"type":     "object",
		"required": []any{"isCorrect"},
		"properties": map[string]any{
			"isCorrect":     map[string]any{"type": "boolean"},
			"correctAnswer": map[string]any{"type": "string"},
			"explanation":   map[string]any{"type": "string"},
			"explanationEn": map[string]any{"type": "string"},
			"points":        map[string]any{"type": "integer", "minimum": 0},
		},
	}),
}

var completionSchema = &schema{
	Name: "completion-result",
	Definition: envelopeOf(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score":              map[string]any{"type": "number"},
			"questionsCorrect":   map[string]any{"type": "integer", "minimum": 0},
			"questionsAttempted": map[string]any{"type": "integer", "minimum": 0},
		},
	}),
}

var statsSchema = &schema{
	Name: "student-stats",
	Definition: envelopeOf(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"completedLessons": map[string]any{"type": "integer", "minimum": 0},
			"totalLessons":     map[string]any{"type": "integer", "minimum": 0},
			"averageScore":     map[string]any{"type": "number"},
			"completionRate":   map[string]any{"type": "number"},
			"totalTimeSpent":   map[string]any{"type": "integer", "minimum": 0},
		},
	}),
}
