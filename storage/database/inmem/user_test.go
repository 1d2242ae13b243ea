package inmemdb

import (
	"context"
	"testing"
	"time"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/user"
)

func TestQueryUsersOrdering(t *testing.T) {
	db, err := Open()
	if err != nil {
		t.Fatalf("Open(): %v", err)
	}
	repo := NewUserRepository(db)
	ctx := context.Background()

	t1 := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)

	create := func(name string, at time.Time) user.User {
		usr, err := repo.CreateUser(ctx, user.User{Name: name, Email: name + "@test.cd", CreatedAt: at})
		if err != nil {
			t.Fatalf("CreateUser(%s): %v", name, err)
		}
		return usr
	}
	oldest := create("ada", t1)
	tieA := create("ada2", t2)
	tieB := create("bob", t2)
	newest := create("cleo", t3)

	tests := []struct {
		name     string
		ordering []core.DBOrdering
		want     []string
	}{
		{
			name:     "created_at desc, name tiebreak",
			ordering: []core.DBOrdering{{Field: "created_at"}, {Field: "name", Ascending: true}},
			want:     []string{newest.ID, tieA.ID, tieB.ID, oldest.ID},
		},
		{
			name:     "created_at asc, name tiebreak",
			ordering: []core.DBOrdering{{Field: "created_at", Ascending: true}, {Field: "name", Ascending: true}},
			want:     []string{oldest.ID, tieA.ID, tieB.ID, newest.ID},
		},
		{
			name:     "name desc",
			ordering: []core.DBOrdering{{Field: "name"}},
			want:     []string{newest.ID, tieB.ID, tieA.ID, oldest.ID},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := repo.QueryUsers(ctx, nil, tt.ordering)
			if err != nil {
				t.Fatalf("QueryUsers(): %v", err)
			}
			if len(users) != len(tt.want) {
				t.Fatalf("QueryUsers() returned %d users; want %d", len(users), len(tt.want))
			}
			for i, id := range tt.want {
				if users[i].ID != id {
					t.Errorf("users[%d].ID = %v (%s); want %v", i, users[i].ID, users[i].Name, id)
				}
			}
		})
	}
}
