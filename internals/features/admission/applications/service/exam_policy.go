package service

import "super40_backend/internals/configs"

// ExamPolicy holds the exam-day schedule stamped onto applications at
// approval. Centre is not part of the policy: it is copied from the
// applicant's own choice.
type ExamPolicy struct {
	Time string
	Date string
}

func ExamPolicyFromEnv() ExamPolicy {
	return ExamPolicy{
		Time: configs.GetEnv("EXAM_TIME", "10:00 AM - 12:00 PM"),
		Date: configs.GetEnv("EXAM_DATE", "2025-12-15"),
	}
}
