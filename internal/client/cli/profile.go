package cli

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/rolandocepedadev/ccat/internal/client/client"
	"github.com/rolandocepedadev/ccat/internal/client/models"
	"github.com/rolandocepedadev/ccat/internal/client/upload"
	"github.com/rolandocepedadev/ccat/internal/common"
)

const minPasswordLength = 6

func (a *App) printProfile(p *models.Profile) {
	a.printf("[%s] %s\n", models.Initials(*p), models.DisplayName(*p))
	a.printf("Email:      %s\n", p.Email)
	a.printf("First name: %s\n", p.FirstName)
	a.printf("Last name:  %s\n", p.LastName)
	if p.AvatarURL != "" {
		a.printf("Avatar:     %s\n", p.AvatarURL)
	}
}

func (a *App) Profile(ctx context.Context, _ []string) error {
	p, err := a.api.Profile(ctx)
	if err != nil {
		return err
	}
	a.printProfile(p)
	return nil
}

// Name sets the display name. Without arguments it prompts for both parts.
func (a *App) Name(ctx context.Context, args []string) error {
	var first, last string
	switch len(args) {
	case 0:
		var err error
		if first, err = getSimpleText(a.reader, "First name", a.out); err != nil {
			return err
		}
		if last, err = getSimpleText(a.reader, "Last name", a.out); err != nil {
			return err
		}
	case 1:
		first = args[0]
	default:
		first, last = args[0], strings.Join(args[1:], " ")
	}

	p, err := a.api.UpdateProfile(ctx, first, last)
	if err != nil {
		return err
	}
	a.printf("Profile updated successfully, hello %s\n", models.DisplayName(*p))
	return nil
}

// Avatar uploads an image as the profile picture, or prints a fresh link
// to the current one with "avatar url".
func (a *App) Avatar(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: avatar <path>|url")
	}

	if args[0] == "url" {
		u, err := a.api.AvatarURL(ctx)
		if err != nil {
			return err
		}
		a.printf("%s\n", u.URL)
		return nil
	}

	src, err := upload.FileSource(args[0])
	if err != nil {
		return err
	}
	if !strings.HasPrefix(src.ContentType, "image/") {
		return errors.New("Please select an image file")
	}
	if src.Size > common.AvatarMaxSize {
		return errors.New("File size must be less than 5MB")
	}

	p, err := a.api.UploadAvatar(ctx, client.Payload{
		Name:        src.Name,
		Size:        src.Size,
		ContentType: src.ContentType,
		Open:        src.Open,
	})
	if err != nil {
		return err
	}
	a.printf("Avatar updated successfully\n")
	if p.AvatarURL != "" {
		a.printf("%s\n", p.AvatarURL)
	}
	return nil
}

// Passwd changes the password after checking the confirmation locally.
func (a *App) Passwd(ctx context.Context, _ []string) error {
	pw, err := getPassword(a.out, "New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	confirm, err := getPassword(a.out, "Confirm new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(pw) != string(confirm) {
		return errors.New("New passwords do not match")
	}
	if len(pw) < minPasswordLength {
		return errors.New("Password must be at least 6 characters long")
	}

	if err := a.api.ChangePassword(ctx, string(pw), string(confirm)); err != nil {
		return err
	}
	a.printf("Password updated successfully\n")
	return nil
}

func (a *App) Debug(ctx context.Context, _ []string) error {
	r, err := a.api.StorageReport(ctx)
	if err != nil {
		return err
	}

	a.printf("Bucket:      %s\n", r.Bucket)
	a.printf("Buckets:     %d %s\n", r.Buckets.Count, errSuffix(r.Buckets.Error))
	a.printf("Your files:  %d %s\n", r.UserFiles.Count, errSuffix(r.UserFiles.Error))

	probe := "ok"
	if !r.UploadTest.Success {
		probe = "failed"
	}
	a.printf("Upload test: %s %s%s\n", probe, r.UploadTest.Path, errSuffix(r.UploadTest.Error))

	keys := make([]string, 0, len(r.Environment))
	for k := range r.Environment {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		a.printf("%-12s %s\n", k+":", r.Environment[k])
	}
	return nil
}

func errSuffix(msg string) string {
	if msg == "" {
		return ""
	}
	return "(" + msg + ")"
}
