package participant

import (
	"errors"
	"testing"
)

func TestParticipantMembership(t *testing.T) {
	t.Parallel()

	alice := Individual{IdentityID: "alice"}
	duo := Partnership{PartnershipID: "duo-1", MemberA: "bob", MemberB: "carol"}

	tests := []struct {
		name     string
		p        Participant
		identity string
		want     bool
	}{
		{name: "individual self", p: alice, identity: "alice", want: true},
		{name: "individual other", p: alice, identity: "bob", want: false},
		{name: "individual blank", p: alice, identity: " ", want: false},
		{name: "partnership member a", p: duo, identity: "bob", want: true},
		{name: "partnership member b", p: duo, identity: "carol", want: true},
		{name: "partnership id is not a member", p: duo, identity: "duo-1", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.p.HasMember(tc.identity); got != tc.want {
				t.Fatalf("HasMember(%q)=%v want=%v", tc.identity, got, tc.want)
			}
		})
	}
}

func TestParticipantEquals(t *testing.T) {
	t.Parallel()

	a := Individual{IdentityID: "x", DisplayName: "X"}
	b := Individual{IdentityID: "x"}
	p := Partnership{PartnershipID: "x", MemberA: "m1", MemberB: "m2"}

	if !a.Equals(b) {
		t.Fatalf("expected individuals with same id to be equal")
	}
	if a.Equals(p) {
		t.Fatalf("expected different kinds with same id to differ")
	}
	if a.Equals(nil) {
		t.Fatalf("expected nil to never be equal")
	}
}

func TestPartnershipValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		p       Partnership
		wantErr bool
	}{
		{name: "valid", p: Partnership{PartnershipID: "d", MemberA: "a", MemberB: "b"}},
		{name: "missing id", p: Partnership{MemberA: "a", MemberB: "b"}, wantErr: true},
		{name: "missing member", p: Partnership{PartnershipID: "d", MemberA: "a"}, wantErr: true},
		{name: "same member twice", p: Partnership{PartnershipID: "d", MemberA: "a", MemberB: "a"}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.p.Validate()
			if tc.wantErr && !errors.Is(err, ErrInvalidParticipant) {
				t.Fatalf("expected ErrInvalidParticipant, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSharesMember(t *testing.T) {
	t.Parallel()

	duo := Partnership{PartnershipID: "d1", MemberA: "a", MemberB: "b"}
	other := Partnership{PartnershipID: "d2", MemberA: "b", MemberB: "c"}
	disjoint := Partnership{PartnershipID: "d3", MemberA: "x", MemberB: "y"}

	if !SharesMember(duo, other) {
		t.Fatalf("expected overlap on member b")
	}
	if SharesMember(duo, disjoint) {
		t.Fatalf("expected no overlap")
	}
}
