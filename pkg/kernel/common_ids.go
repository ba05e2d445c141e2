package kernel

type UserID string

func NewUserID(id string) UserID { return UserID(id) }
func (u UserID) String() string  { return string(u) }
func (u UserID) IsEmpty() bool   { return string(u) == "" }

type Role string

func (r Role) String() string { return string(r) }
func (r Role) IsEmpty() bool  { return string(r) == "" }
