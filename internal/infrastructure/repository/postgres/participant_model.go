package postgres

import "time"

type individualTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	DisplayName string     `db:"display_name"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type individualInsertModel struct {
	PublicID    string `db:"public_id"`
	DisplayName string `db:"display_name"`
}

type partnershipTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	MemberAID   string     `db:"member_a_id"`
	MemberBID   string     `db:"member_b_id"`
	DisplayName string     `db:"display_name"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type partnershipInsertModel struct {
	PublicID    string `db:"public_id"`
	MemberAID   string `db:"member_a_id"`
	MemberBID   string `db:"member_b_id"`
	DisplayName string `db:"display_name"`
}
