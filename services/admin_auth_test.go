package services

import "testing"

func TestCheckAdminPassword(t *testing.T) {
	hash, err := HashAdminPassword("sekret123")
	if err != nil {
		t.Fatalf("HashAdminPassword: %v", err)
	}

	if !CheckAdminPassword(hash, "sekret123") {
		t.Error("correct password rejected")
	}
	if CheckAdminPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
	if CheckAdminPassword(hash, "") {
		t.Error("empty password accepted")
	}
	// No hash configured means the gate is closed, not open.
	if CheckAdminPassword("", "sekret123") {
		t.Error("empty hash must reject everything")
	}
	if CheckAdminPassword("not-a-bcrypt-hash", "sekret123") {
		t.Error("malformed hash must reject everything")
	}
}
