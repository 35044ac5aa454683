package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentLoginKey returns the cache key for a student's login session.
func (r *CacheKeyStruct) StudentLoginKey(studentID int) string {
	return fmt.Sprintf("login:%d", studentID)
}

// PartialSessionKey returns the key holding a student's in-progress exam
// session blob. The layout is shared with the store package and must not
// change without migrating stored sessions.
func (r *CacheKeyStruct) PartialSessionKey(studentID int, examID string) string {
	return fmt.Sprintf("exam_session_%d_%s", studentID, examID)
}

// ResultHistoryKey returns the key holding a student's append-only result list.
func (r *CacheKeyStruct) ResultHistoryKey(studentID int) string {
	return fmt.Sprintf("exam_results_%d", studentID)
}

var CacheKey = NewCacheKeyStruct()
