package user

import (
	"context"
	"errors"
	"strings"

	"carelink-backend/internal/domain/staff"
)

type Usecase struct {
	dir *staff.Directory
}

func NewUsecase(dir *staff.Directory) *Usecase { return &Usecase{dir: dir} }

// CheckOutput answers the app's startup question: who is this chat
// identity, and which units exist for a fresh binding.
type CheckOutput struct {
	Registered bool           `json:"registered"`
	Profiles   []staff.Member `json:"profiles,omitempty"`
	Units      []string       `json:"units"`
}

func (u *Usecase) Check(ctx context.Context, uid string) (*CheckOutput, error) {
	profiles, err := u.dir.Profiles(ctx, uid)
	if err != nil {
		return nil, err
	}
	units, err := u.dir.Units(ctx)
	if err != nil {
		return nil, err
	}
	if units == nil {
		units = []string{}
	}
	return &CheckOutput{
		Registered: len(profiles) > 0,
		Profiles:   profiles,
		Units:      units,
	}, nil
}

type BindInput struct {
	UID     string `json:"uid"`
	Unit    string `json:"unit"`
	Name    string `json:"name"`
	StaffID string `json:"staffId"`
}

type BindResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Bind claims an unclaimed directory row for the chat identity. The
// failure message deliberately doesn't reveal which of the three fields
// mismatched.
func (u *Usecase) Bind(ctx context.Context, in BindInput) (*BindResult, error) {
	if strings.TrimSpace(in.UID) == "" || strings.TrimSpace(in.Unit) == "" ||
		strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.StaffID) == "" {
		return &BindResult{Success: false, Message: "請填寫完整的綁定資料"}, nil
	}
	err := u.dir.Bind(ctx, in.UID, in.Unit, in.Name, in.StaffID)
	if errors.Is(err, staff.ErrNotFound) {
		return &BindResult{Success: false, Message: "驗證失敗：單位、姓名或員工編號錯誤，或已被綁定"}, nil
	}
	if err != nil {
		return nil, err
	}
	return &BindResult{Success: true}, nil
}
