package fakeuserrepo

import (
	"sort"
	"sync"

	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users     map[int]*users.User
	usernames map[string]int // username to user id
	nextID    int
	lock      sync.RWMutex
}

func NewFakeUserRepo() users.UserRepo {
	return &FakeUserRepo{
		users:     make(map[int]*users.User),
		usernames: make(map[string]int),
		nextID:    1,
	}
}

// Upsert stores user, assigning the next id when ID is zero. Usernames are
// unique.
func (ur *FakeUserRepo) Upsert(user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if id, ok := ur.usernames[user.Username]; ok && id != user.ID {
		return errors.Wrapf(errors.ErrValidation, "username %q", user.Username)
	}
	if user.ID == 0 {
		user.ID = ur.nextID
	}
	if user.ID >= ur.nextID {
		ur.nextID = user.ID + 1
	}
	if old, ok := ur.users[user.ID]; ok && old.Username != user.Username {
		delete(ur.usernames, old.Username)
	}
	ur.users[user.ID] = user
	ur.usernames[user.Username] = user.ID
	return nil
}

func (ur *FakeUserRepo) Delete(id int) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[id]
	if !ok {
		return errors.ErrNotFound
	}
	delete(ur.usernames, user.Username)
	delete(ur.users, id)
	return nil
}

func (ur *FakeUserRepo) GetByUsername(username string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.usernames[username]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return ur.users[id], nil
}

func (ur *FakeUserRepo) GetByID(id int) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return user, nil
}

func (ur *FakeUserRepo) List() ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userList := make([]*users.User, 0, len(ur.users))
	for _, v := range ur.users {
		userList = append(userList, v)
	}
	sort.Slice(userList, func(i, j int) bool {
		return userList[i].ID < userList[j].ID
	})
	return userList, nil
}
