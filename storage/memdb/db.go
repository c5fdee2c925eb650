// Package memdb is the in-memory store of the development LMS backend.
//
// Every method returns copies: records handed out can be modified freely
// and only reach the store through an explicit update.
package memdb

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	NowFunc = time.Now // mockable

	// TaxRate applies to every cart.
	TaxRate = 0.05

	// errors
	ErrNotFound        = errors.New("not found")
	ErrEmailExists     = errors.New("user with this email already exists")
	ErrAlreadyReviewed = errors.New("course already reviewed")
	ErrEmptyCart       = errors.New("cart is empty")
)

type DB struct {
	mu  sync.RWMutex
	seq map[string]int

	users        map[int]*User
	teachers     map[int]*Teacher
	categories   []Category
	courses      map[int]*Course
	sections     map[int][]Section // by course id
	enrollments  map[string]*Enrollment
	completed    []CompletedLesson
	notes        map[int]*Note
	questions    map[int]*Question // by qa id
	reviews      map[int]*Review
	certificates map[string]*Certificate
	cartItems    map[int]*CartItem
	orders       map[string]*Order
}

func Open() *DB {
	return &DB{
		seq:          make(map[string]int),
		users:        make(map[int]*User),
		teachers:     make(map[int]*Teacher),
		courses:      make(map[int]*Course),
		sections:     make(map[int][]Section),
		enrollments:  make(map[string]*Enrollment),
		notes:        make(map[int]*Note),
		questions:    make(map[int]*Question),
		reviews:      make(map[int]*Review),
		certificates: make(map[string]*Certificate),
		cartItems:    make(map[int]*CartItem),
		orders:       make(map[string]*Order),
	}
}

// next returns the next primary key of table. Must be called with the lock held.
func (db *DB) next(table string) int {
	db.seq[table]++
	return db.seq[table]
}

// shortID is a public identifier: enrollment ids, course ids, order ids...
func shortID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])
}

func now() time.Time {
	return NowFunc().UTC()
}
