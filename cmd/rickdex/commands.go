// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/taibuivan/rickdex/internal/browse"
	"github.com/taibuivan/rickdex/internal/character"
	"github.com/taibuivan/rickdex/internal/favorite"
	"github.com/taibuivan/rickdex/internal/favstore"
	"github.com/taibuivan/rickdex/pkg/pagination"
)

// scanLimit is the page size used to find a character's favorite record.
const scanLimit = 100

func (a *app) dispatch(context context.Context, name string, args []string) error {
	switch name {
	case "whoami":
		return a.whoami(context)
	case "login":
		return a.login(context)
	case "logout":
		return a.logout(context)
	case "browse":
		return a.browse(context)
	case "favorites":
		return a.listFavorites(context)
	case "show", "fav", "unfav", "toggle":
		if len(args) != 1 {
			return fmt.Errorf("%s needs exactly one character id", name)
		}
		id, err := strconv.Atoi(args[0])
		if err != nil || id <= 0 {
			return fmt.Errorf("%s: %q is not a character id", name, args[0])
		}
		return a.withCharacter(context, name, id)
	default:
		return fmt.Errorf("unknown command %q", name)
	}
}

// # Identity

// userID returns the anonymous identifier. The very first run also signs the
// session in; after an explicit logout only login does.
func (a *app) userID(context context.Context) (string, error) {
	userID, err := a.users.UserID(context)
	if err != nil {
		return "", err
	}

	stored, err := a.session.Stored(context)
	if err != nil {
		a.log.Warn("session_load_failed", slog.Any("error", err))
		return userID, nil
	}
	if !stored {
		if _, err := a.session.SetUserID(context, userID); err != nil {
			a.log.Warn("session_save_failed", slog.Any("error", err))
		}
	}
	return userID, nil
}

func (a *app) whoami(context context.Context) error {
	userID, err := a.userID(context)
	if err != nil {
		return err
	}

	state, err := a.session.Load(context)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "user:          %s\n", userID)
	fmt.Fprintf(a.out, "authenticated: %t\n", state.IsAuthenticated)
	fmt.Fprintf(a.out, "server:        %s\n", a.settings.Server)
	return nil
}

func (a *app) login(context context.Context) error {
	userID, err := a.userID(context)
	if err != nil {
		return err
	}
	if _, err := a.session.SetUserID(context, userID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "signed in as %s\n", userID)
	return nil
}

func (a *app) logout(context context.Context) error {
	if err := a.session.Logout(context); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "session cleared")
	return nil
}

// # Characters

func (a *app) browse(context context.Context) error {
	filters := browse.NewFilters()
	filters.SetSearchQuery(a.opts.search)
	filters.SetPage(a.opts.page)

	// 1. First page of the search; the page count is only known after it
	listing := browse.NewListing(a.client, a.log, 1)
	if !listing.SetSearch(context, filters.SearchQuery()) {
		listing.Load(context)
	}
	if err := listingError(listing.State()); err != nil {
		return err
	}

	// 2. Jump to the requested page
	if page := filters.Page(); page > 1 && !listing.GoToPage(context, page) {
		return fmt.Errorf("page %d is out of range", page)
	}

	state := listing.State()
	if err := listingError(state); err != nil {
		return err
	}
	if len(state.Characters) == 0 {
		fmt.Fprintln(a.out, "No characters found.")
		return nil
	}

	if userID, err := a.userID(context); err == nil {
		a.favorites.FetchFavorites(context, userID, 1, scanLimit, "")
	}

	table := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(table, "\tID\tNAME\tSTATUS\tSPECIES")
	for _, item := range state.Characters {
		fmt.Fprintf(table, "%s\t%d\t%s\t%s\t%s\n", a.marker(item.ID), item.ID, item.Name, item.Status, item.Species)
	}
	if err := table.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "page %d of %d (%d characters)\n", state.Page, state.Info.Pages, state.Info.Count)
	return nil
}

func listingError(state browse.State) error {
	switch {
	case state.RateLimited:
		return fmt.Errorf("%s (try again shortly)", state.Error)
	case state.Error != "":
		return errors.New(state.Error)
	}
	return nil
}

func (a *app) marker(characterID int) string {
	if a.favorites.IsFavorited(characterID) {
		return "*"
	}
	return ""
}

func (a *app) withCharacter(context context.Context, command string, id int) error {
	item, err := a.client.GetCharacter(context, id)
	if err != nil {
		return err
	}

	userID, err := a.userID(context)
	if err != nil {
		return err
	}

	switch command {
	case "show":
		favorited := a.favorites.CheckFavorite(context, userID, id)
		printCharacter(a.out, item, favorited)
		return nil

	case "fav":
		return report(a.out, a.favorites.AddFavorite(context, favstore.AddParams{UserID: userID, Character: *item}), "added "+item.Name)

	case "unfav":
		record, err := a.findRecord(context, userID, item)
		if err != nil {
			return err
		}
		if record == nil {
			return fmt.Errorf("%s is not in your favorites", item.Name)
		}
		return report(a.out, a.favorites.RemoveFavorite(context, record.ID, userID), "removed "+item.Name)

	default:
		if _, err := a.findRecord(context, userID, item); err != nil {
			return err
		}
		result := a.favorites.ToggleFavorite(context, userID, *item)
		if result == nil {
			return fmt.Errorf("%s is favorited but its record could not be loaded", item.Name)
		}
		verb := "removed "
		if a.favorites.IsFavorited(id) {
			verb = "added "
		}
		return report(a.out, *result, verb+item.Name)
	}
}

// findRecord loads the favorites matching the character name into the store
// and returns the record for the character, if any.
func (a *app) findRecord(context context.Context, userID string, item *character.Character) (*favorite.Favorite, error) {
	a.favorites.FetchFavorites(context, userID, 1, scanLimit, item.Name)

	snapshot := a.favorites.Snapshot()
	if snapshot.Error != "" {
		return nil, errors.New(snapshot.Error)
	}
	for _, record := range snapshot.Favorites {
		if record.CharacterID == item.ID {
			return &record, nil
		}
	}
	return nil, nil
}

// # Favorites

func (a *app) listFavorites(context context.Context) error {
	userID, err := a.userID(context)
	if err != nil {
		return err
	}

	a.favorites.FetchFavorites(context, userID, a.opts.page, a.settings.Limit, a.opts.search)

	snapshot := a.favorites.Snapshot()
	if snapshot.Error != "" {
		return errors.New(snapshot.Error)
	}
	if len(snapshot.Favorites) == 0 {
		fmt.Fprintln(a.out, "No favorites yet.")
		return nil
	}

	table := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(table, "ID\tNAME\tADDED")
	for _, record := range snapshot.Favorites {
		fmt.Fprintf(table, "%d\t%s\t%s\n", record.CharacterID, record.Character.Name, record.CreatedAt.Format("2006-01-02"))
	}
	if err := table.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(a.out, pageLine(snapshot.Pagination))
	return nil
}

// # Output

func pageLine(meta pagination.Meta) string {
	return fmt.Sprintf("page %d of %d (%d favorites)", meta.Page, max(1, meta.Pages), meta.Total)
}

func printCharacter(out io.Writer, item *character.Character, favorited bool) {
	fmt.Fprintf(out, "%s (#%d)\n", item.Name, item.ID)
	fmt.Fprintf(out, "  status:   %s\n", item.Status)
	fmt.Fprintf(out, "  species:  %s\n", strings.TrimSpace(item.Species+" "+item.Type))
	fmt.Fprintf(out, "  gender:   %s\n", item.Gender)
	fmt.Fprintf(out, "  origin:   %s\n", item.Origin.Name)
	fmt.Fprintf(out, "  location: %s\n", item.Location.Name)
	fmt.Fprintf(out, "  episodes: %d\n", len(item.Episode))
	fmt.Fprintf(out, "  favorite: %t\n", favorited)
}

func report(out io.Writer, result favstore.Result, success string) error {
	if !result.Success {
		return errors.New(result.Error)
	}
	fmt.Fprintln(out, success)
	return nil
}
