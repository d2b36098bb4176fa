package store

import (
	"errors"
	"fmt"
	"testing"
)

type codedError struct {
	code int
	msg  string
}

func (e codedError) Error() string { return e.msg }
func (e codedError) Code() int     { return e.code }

func TestConstraintClassification(t *testing.T) {
	cases := map[string]struct {
		err        error
		unique     bool
		foreignKey bool
	}{
		"unique code": {
			err:    codedError{code: 2067, msg: "constraint failed: UNIQUE constraint failed: words.user_id, words.lemma (2067)"},
			unique: true,
		},
		"foreign key code": {
			err:        codedError{code: 787, msg: "constraint failed: FOREIGN KEY constraint failed (787)"},
			foreignKey: true,
		},
		"not null code": {
			err: codedError{code: 1299, msg: "constraint failed: NOT NULL constraint failed: words.lemma (1299)"},
		},
		"check code": {
			err: codedError{code: 275, msg: "constraint failed: CHECK constraint failed: confidence (275)"},
		},
		"wrapped unique code": {
			err:    fmt.Errorf("insert word: %w", codedError{code: 2067, msg: "constraint failed"}),
			unique: true,
		},
		"primary code with unique message": {
			err:    codedError{code: 19, msg: "constraint failed: UNIQUE constraint failed: words.user_id, words.lemma"},
			unique: true,
		},
		"primary code with not null message": {
			err: codedError{code: 19, msg: "constraint failed: NOT NULL constraint failed: words.lemma"},
		},
		"unique message only": {
			err:    errors.New("UNIQUE constraint failed: words.user_id, words.lemma"),
			unique: true,
		},
		"not null message only": {
			err: errors.New("constraint failed: NOT NULL constraint failed: words.lemma"),
		},
		"nil": {},
	}
	for name, tc := range cases {
		if got := isUniqueConstraintErr(tc.err); got != tc.unique {
			t.Fatalf("%s: isUniqueConstraintErr = %v, want %v", name, got, tc.unique)
		}
		if got := isForeignKeyErr(tc.err); got != tc.foreignKey {
			t.Fatalf("%s: isForeignKeyErr = %v, want %v", name, got, tc.foreignKey)
		}
	}
}
