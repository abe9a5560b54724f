package pkg

// Int64Ptr return a pointer to v
func Int64Ptr(v int64) *int64 {
	return &v
}
