package types

import "testing"

func TestCanAccessRoot(t *testing.T) {
	if !CanAccess(0o000, 5, 5, QueryCredential{UID: 0, GID: 0}) {
		t.Fatal("root must see every file")
	}
}

func TestCanAccessWorldReadableOverridesMissingOwnerRead(t *testing.T) {
	// Owner uid matches the caller, but only the world-read bit is set:
	// the original's check_file_permission tests all three classes
	// independently, so the world-read bit alone must grant access even
	// though the owner-read bit is absent.
	if !CanAccess(0o004, 7, 7, QueryCredential{UID: 7, GID: 7}) {
		t.Fatal("world-readable bit must grant access regardless of owner-read bit")
	}
}

func TestCanAccessOwnerReadGrantsWithoutWorldBit(t *testing.T) {
	if !CanAccess(0o400, 7, 9, QueryCredential{UID: 7, GID: 1}) {
		t.Fatal("owner-read bit must grant access to the owning uid")
	}
}

func TestCanAccessGroupReadGrantsWithoutWorldBit(t *testing.T) {
	if !CanAccess(0o040, 9, 7, QueryCredential{UID: 1, GID: 7}) {
		t.Fatal("group-read bit must grant access to the owning gid")
	}
}

func TestCanAccessDeniesWhenNoClassMatches(t *testing.T) {
	if CanAccess(0o440, 9, 9, QueryCredential{UID: 1, GID: 1}) {
		t.Fatal("non-owner, non-group, non-world caller must be denied")
	}
}
