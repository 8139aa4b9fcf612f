package models

import "encoding/json"

// User is the authenticated account as returned by the remote service.
// Fields beyond the known ones are kept verbatim in Extra.
type User struct {
	ID       int64                      `json:"id,omitempty"`
	Username string                     `json:"username"`
	Email    string                     `json:"email"`
	Extra    map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps the rest as passthrough data.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	type plain User
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*u = User(p)

	for _, k := range []string{"id", "username", "email"} {
		delete(raw, k)
	}
	if len(raw) > 0 {
		u.Extra = raw
	}
	return nil
}

// MarshalJSON writes the known fields merged with the passthrough data.
func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Extra)+3)
	for k, v := range u.Extra {
		out[k] = v
	}
	if u.ID != 0 {
		out["id"] = u.ID
	}
	out["username"] = u.Username
	out["email"] = u.Email
	return json.Marshal(out)
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(u.Extra))
		for k, v := range u.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &c
}
