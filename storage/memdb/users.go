package memdb

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type (
	User struct {
		ID           int
		FullName     string
		Username     string
		Email        string
		PasswordHash []byte
		DateJoined   time.Time
		LastLogin    time.Time

		// profile
		Image   string
		About   string
		Country string
	}

	Teacher struct {
		ID       int
		UserID   int
		FullName string
		Image    string
		Bio      string
	}
)

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// CreateUser stores a new user. Its username defaults to the local part of its email.
func (db *DB) CreateUser(usr User, pwd string) (User, error) {
	usr.Email = strings.ToLower(strings.TrimSpace(usr.Email))
	if usr.Username == "" {
		usr.Username = strings.SplitN(usr.Email, "@", 2)[0]
	}
	if err := usr.SetPassword(pwd); err != nil {
		return User{}, err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == usr.Email {
			return User{}, ErrEmailExists
		}
	}
	usr.ID = db.next("user")
	usr.DateJoined = now()
	db.users[usr.ID] = &usr
	return usr, nil
}

func (db *DB) UserByID(id int) (User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if usr, ok := db.users[id]; ok {
		return *usr, nil
	}
	return User{}, ErrNotFound
}

func (db *DB) UserByEmail(email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, usr := range db.users {
		if usr.Email == email {
			return *usr, nil
		}
	}
	return User{}, ErrNotFound
}

// UpdateUser saves usr as is, password hash included.
func (db *DB) UpdateUser(usr User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.users[usr.ID]; !ok {
		return ErrNotFound
	}
	db.users[usr.ID] = &usr
	return nil
}

// MakeTeacher gives a user an instructor profile, once.
func (db *DB) MakeTeacher(userID int) (Teacher, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	usr, ok := db.users[userID]
	if !ok {
		return Teacher{}, ErrNotFound
	}
	for _, t := range db.teachers {
		if t.UserID == userID {
			return *t, nil
		}
	}
	t := Teacher{ID: db.next("teacher"), UserID: userID, FullName: usr.FullName, Image: usr.Image}
	db.teachers[t.ID] = &t
	return t, nil
}

func (db *DB) TeacherByID(id int) (Teacher, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if t, ok := db.teachers[id]; ok {
		return *t, nil
	}
	return Teacher{}, ErrNotFound
}

// TeacherOf returns the instructor profile of a user, if any.
func (db *DB) TeacherOf(userID int) (Teacher, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, t := range db.teachers {
		if t.UserID == userID {
			return *t, true
		}
	}
	return Teacher{}, false
}
