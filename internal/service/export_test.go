package service

// HashPasswordForTest exposes the peppered bcrypt scheme to external tests.
var HashPasswordForTest = hashPassword
