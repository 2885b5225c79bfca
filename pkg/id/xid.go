package id

import "github.com/rs/xid"

// GetXid returns a 20 character sortable id, used for verification code ids
func GetXid() string {
	return xid.New().String()
}
