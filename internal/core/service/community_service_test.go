package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/commonroom/community-platform/internal/core/domain"
	"github.com/commonroom/community-platform/internal/core/ports"
)

var nopLogger = zerolog.Nop()

type stubCommunityRepo struct {
	communities map[string]*domain.Community
	seq         int
}

func newStubCommunityRepo() *stubCommunityRepo {
	return &stubCommunityRepo{communities: make(map[string]*domain.Community)}
}

func (r *stubCommunityRepo) Create(_ context.Context, c *domain.Community) (*domain.Community, error) {
	for _, existing := range r.communities {
		if existing.Name == c.Name {
			return nil, domain.ErrDuplicateCommunity
		}
	}
	r.seq++
	c.ID = fmt.Sprintf("community-%d", r.seq)
	clone := *c
	r.communities[c.ID] = &clone
	return c, nil
}

func (r *stubCommunityRepo) FindByID(_ context.Context, id string) (*domain.Community, error) {
	c, ok := r.communities[id]
	if !ok {
		return nil, domain.ErrCommunityNotFound
	}
	clone := *c
	clone.Members = append([]string(nil), c.Members...)
	return &clone, nil
}

func (r *stubCommunityRepo) List(_ context.Context) ([]domain.Community, error) {
	out := make([]domain.Community, 0, len(r.communities))
	for _, c := range r.communities {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCommunityRepo) Update(_ context.Context, c *domain.Community) error {
	if _, ok := r.communities[c.ID]; !ok {
		return domain.ErrCommunityNotFound
	}
	clone := *c
	clone.Members = append([]string(nil), c.Members...)
	r.communities[c.ID] = &clone
	return nil
}

func (r *stubCommunityRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.communities[id]; !ok {
		return domain.ErrCommunityNotFound
	}
	delete(r.communities, id)
	return nil
}

func seedCommunity(t *testing.T, svc *CommunityService, creatorID string) *domain.Community {
	t.Helper()
	c, err := svc.Create(context.Background(), ports.CreateCommunityInput{
		Name:        "gophers",
		Description: "all things Go",
		CreatorID:   creatorID,
	})
	if err != nil {
		t.Fatalf("seed community: %v", err)
	}
	return c
}

func TestCommunityService_Create_SeedsCreatorMembership(t *testing.T) {
	svc := NewCommunityService(newStubCommunityRepo(), nopLogger)

	c := seedCommunity(t, svc, "alice")

	if len(c.Members) != 1 || c.Members[0] != "alice" {
		t.Errorf("members = %v, want [alice]", c.Members)
	}
	if !c.IsCreator("alice") {
		t.Error("creator should be recorded")
	}
}

func TestCommunityService_Create_DuplicateName(t *testing.T) {
	svc := NewCommunityService(newStubCommunityRepo(), nopLogger)
	seedCommunity(t, svc, "alice")

	_, err := svc.Create(context.Background(), ports.CreateCommunityInput{
		Name:      "gophers",
		CreatorID: "bob",
	})
	if !errors.Is(err, domain.ErrDuplicateCommunity) {
		t.Errorf("err = %v, want ErrDuplicateCommunity", err)
	}
}

func TestCommunityService_Join(t *testing.T) {
	repo := newStubCommunityRepo()
	svc := NewCommunityService(repo, nopLogger)
	c := seedCommunity(t, svc, "alice")

	joined, err := svc.Join(context.Background(), c.ID, "bob")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if !joined.IsMember("bob") {
		t.Error("bob should be a member after joining")
	}

	// Joining again must fail and leave the membership set unchanged.
	_, err = svc.Join(context.Background(), c.ID, "bob")
	if !errors.Is(err, domain.ErrAlreadyMember) {
		t.Fatalf("err = %v, want ErrAlreadyMember", err)
	}
	stored, _ := repo.FindByID(context.Background(), c.ID)
	if len(stored.Members) != 2 {
		t.Errorf("members = %v, want exactly [alice bob]", stored.Members)
	}
}

func TestCommunityService_Leave(t *testing.T) {
	repo := newStubCommunityRepo()
	svc := NewCommunityService(repo, nopLogger)
	c := seedCommunity(t, svc, "alice")
	if _, err := svc.Join(context.Background(), c.ID, "bob"); err != nil {
		t.Fatalf("join: %v", err)
	}

	left, err := svc.Leave(context.Background(), c.ID, "bob")
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if left.IsMember("bob") {
		t.Error("bob should no longer be a member")
	}

	if _, err := svc.Leave(context.Background(), c.ID, "bob"); !errors.Is(err, domain.ErrNotMember) {
		t.Errorf("err = %v, want ErrNotMember", err)
	}
}

func TestCommunityService_Leave_NeverJoined(t *testing.T) {
	svc := NewCommunityService(newStubCommunityRepo(), nopLogger)
	c := seedCommunity(t, svc, "alice")

	if _, err := svc.Leave(context.Background(), c.ID, "mallory"); !errors.Is(err, domain.ErrNotMember) {
		t.Errorf("err = %v, want ErrNotMember", err)
	}
}

func TestCommunityService_Update(t *testing.T) {
	tests := []struct {
		name      string
		requester string
		patchName string
		patchDesc string
		wantErr   error
		wantName  string
		wantDesc  string
	}{
		{
			name:      "creator patches description",
			requester: "alice",
			patchDesc: "new description",
			wantName:  "gophers",
			wantDesc:  "new description",
		},
		{
			name:      "empty fields keep current values",
			requester: "alice",
			wantName:  "gophers",
			wantDesc:  "all things Go",
		},
		{
			name:      "non-creator rejected",
			requester: "bob",
			patchName: "hijacked",
			wantErr:   domain.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCommunityService(newStubCommunityRepo(), nopLogger)
			c := seedCommunity(t, svc, "alice")

			updated, err := svc.Update(context.Background(), ports.UpdateCommunityInput{
				CommunityID: c.ID,
				RequesterID: tt.requester,
				Name:        tt.patchName,
				Description: tt.patchDesc,
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("update: %v", err)
			}
			if updated.Name != tt.wantName || updated.Description != tt.wantDesc {
				t.Errorf("got %q/%q, want %q/%q", updated.Name, updated.Description, tt.wantName, tt.wantDesc)
			}
		})
	}
}

func TestCommunityService_Delete(t *testing.T) {
	repo := newStubCommunityRepo()
	svc := NewCommunityService(repo, nopLogger)
	c := seedCommunity(t, svc, "alice")

	if err := svc.Delete(context.Background(), c.ID, "bob"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-creator delete: err = %v, want ErrForbidden", err)
	}

	if err := svc.Delete(context.Background(), c.ID, "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), c.ID); !errors.Is(err, domain.ErrCommunityNotFound) {
		t.Errorf("community should be gone, got %v", err)
	}
}
