// Package runtime drives the interactive menus. It owns no business rules:
// matching, list invariants and the send loop live in domain and
// domain/session; this layer renders replies and feeds user input in.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"party-planner/ai"
	"party-planner/contract"
	"party-planner/domain"
	"party-planner/domain/session"
	apperrors "party-planner/errors"
	"party-planner/internal/ui"
	"party-planner/services"
)

// App wires the planner service, transport and console into the menu loop.
type App struct {
	log       *slog.Logger
	console   *ui.Console
	service   *services.PlannerService
	transport contract.Transport
	drafter   *ai.Drafter // nil when no API key is configured
}

func NewApp(
	log *slog.Logger,
	console *ui.Console,
	service *services.PlannerService,
	transport contract.Transport,
	drafter *ai.Drafter,
) *App {
	return &App{
		log:       log,
		console:   console,
		service:   service,
		transport: transport,
		drafter:   drafter,
	}
}

// Run shows the list picker and the party menu until the user exits.
// Exhausted input (Ctrl-D) ends the program like a normal quit.
func (a *App) Run(ctx context.Context) error {
	a.console.Banner("PARTY PLANNER")
	a.console.Println("Create a list, draft a text, and we'll message everyone one by one.")

	for {
		list, err := a.selectOrCreateList(ctx)
		if err != nil {
			return quietEOF(err)
		}
		switchList, err := a.partyMenu(ctx, list)
		if err != nil {
			return quietEOF(err)
		}
		if !switchList {
			a.console.Println("\nGoodbye! Party on!")
			return nil
		}
	}
}

// quietEOF turns exhausted input into a clean exit.
func quietEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (a *App) selectOrCreateList(ctx context.Context) (*domain.PartyList, error) {
	for {
		names, err := a.service.ListNames()
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			a.console.Println("\nNo existing party lists found. Let's create your first one!")
			return a.createList(ctx)
		}

		a.console.Println("\nExisting party lists:")
		for i, name := range names {
			count := 0
			if list, err := a.service.LoadList(name); err == nil {
				count = list.Len()
			}
			a.console.Printf("  %d. %s (%d contacts)\n", i+1, name, count)
		}
		a.console.Println("\n  N. Create new list")
		a.console.Println("  V. View a list's contacts")
		a.console.Println("  D. Delete a list")

		choice, err := a.console.Prompt("\nSelect a list, 'N' for new, 'V' to view, 'D' to delete: ")
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(choice) {
		case "n":
			return a.createList(ctx)
		case "v":
			if err := a.viewListByNumber(names); err != nil {
				return nil, err
			}
		case "d":
			if err := a.deleteListByNumber(names); err != nil {
				return nil, err
			}
		default:
			idx, convErr := strconv.Atoi(choice)
			if convErr != nil || idx < 1 || idx > len(names) {
				a.console.Println("Invalid choice.")
				continue
			}
			list, err := a.service.LoadList(names[idx-1])
			if err != nil {
				if recoverable(err) {
					a.console.Printf("%v\n", err)
					continue
				}
				return nil, err
			}
			a.console.Printf("\nLoaded %q with %d contacts.\n", list.Name, list.Len())
			return list, nil
		}
	}
}

func (a *App) viewListByNumber(names []string) error {
	choice, err := a.console.Prompt("Enter list number to view: ")
	if err != nil {
		return err
	}
	idx, convErr := strconv.Atoi(choice)
	if convErr != nil || idx < 1 || idx > len(names) {
		a.console.Println("Invalid number.")
		return nil
	}
	list, err := a.service.LoadList(names[idx-1])
	if err != nil {
		a.console.Printf("%v\n", err)
		return nil
	}
	a.console.Printf("\n--- %s ---\n", list.Name)
	if list.Len() == 0 {
		a.console.Println("  (No contacts)")
		return nil
	}
	a.console.ContactTable(list.Members, nil)
	return nil
}

func (a *App) deleteListByNumber(names []string) error {
	choice, err := a.console.Prompt("Enter list number to delete: ")
	if err != nil {
		return err
	}
	idx, convErr := strconv.Atoi(choice)
	if convErr != nil || idx < 1 || idx > len(names) {
		a.console.Println("Invalid number.")
		return nil
	}
	confirm, err := a.console.Prompt(fmt.Sprintf("Delete %q for good? (y/n): ", names[idx-1]))
	if err != nil {
		return err
	}
	if strings.ToLower(confirm) != "y" {
		return nil
	}
	if err := a.service.DeleteList(names[idx-1]); err != nil {
		a.console.Printf("%v\n", err)
		return nil
	}
	a.console.Printf("Deleted %q.\n", names[idx-1])
	return nil
}

func (a *App) createList(ctx context.Context) (*domain.PartyList, error) {
	var list *domain.PartyList
	for {
		name, err := a.console.Prompt("Name for this party list: ")
		if err != nil {
			return nil, err
		}
		// Taken names, empty names and path tricks are all re-prompted.
		list, err = a.service.CreateList(name)
		if err == nil {
			break
		}
		a.console.Printf("%v\n", err)
	}

	snapshot, cached, err := a.service.ContactsOrSync(ctx)
	switch {
	case errors.Is(err, apperrors.ErrSourceUnavailable):
		a.console.Printf("%v\nNo contacts available. You can add contacts manually later.\n", err)
		snapshot = nil
	case err != nil:
		return nil, err
	case cached:
		a.console.Printf("Using %d cached contacts. (Type 'sync' to refresh)\n", len(snapshot))
	default:
		a.console.Printf("Synced %d contacts.\n", len(snapshot))
	}

	if len(snapshot) > 0 {
		if err := a.buildInto(ctx, list, snapshot); err != nil {
			return nil, err
		}
	}
	if err := a.service.SaveList(list); err != nil {
		return nil, err
	}
	a.console.Printf("\nCreated %q with %d contacts.\n", list.Name, list.Len())
	return list, nil
}

// buildInto runs one build session against the current snapshot and leaves
// persistence to the caller.
func (a *App) buildInto(ctx context.Context, list *domain.PartyList, snapshot []domain.Contact) error {
	s := session.NewBuildSession(snapshot, list, func() ([]domain.Contact, error) {
		return a.service.RefreshContacts(ctx)
	})

	a.console.Rule()
	a.console.Println("Search and add contacts to your party list")
	a.console.Println("Commands: 'list' | 'sync' | 'done' | or type to search")
	a.console.Rule()

	for s.State() != session.Done {
		var label string
		if s.State() == session.Reviewing {
			label = "Enter numbers to add (e.g. 1,3), 'all', or Enter to search again: "
		} else {
			a.console.Printf("\nParty list: %d contact(s)\n", list.Len())
			label = ui.Highlight("SEARCH YOUR CONTACTS") + " (or 'list'/'sync'/'done'): "
		}

		input, err := a.console.Prompt(label)
		if err != nil {
			return err
		}

		reply, err := s.Submit(input)
		if err != nil {
			a.console.Printf("%v\n", err)
			continue
		}
		a.renderBuildReply(list, reply)
	}
	return nil
}

func (a *App) renderBuildReply(list *domain.PartyList, reply session.BuildReply) {
	switch {
	case len(reply.Candidates) > 0:
		a.console.Printf("\nFound %d match(es):\n", len(reply.Candidates))
		a.console.ContactTable(reply.Candidates, func(c domain.Contact) string {
			if list.Contains(c.Handle) {
				return "[added]"
			}
			return ""
		})
	case reply.ShowMembers:
		if len(reply.Members) == 0 {
			a.console.Println("\n(No contacts added yet)")
			return
		}
		a.console.Println("\n--- Current Party List ---")
		a.console.ContactTable(reply.Members, nil)
	case reply.Synced:
		a.console.Println("Contacts refreshed from the address book.")
	case reply.Notice != "":
		a.console.Println(reply.Notice)
	default:
		for _, c := range reply.Added {
			a.console.Printf("  + Added %s\n", c.Name)
		}
		for _, n := range reply.OutOfRange {
			a.console.Printf("  (No candidate number %d, ignored)\n", n)
		}
		if reply.Selected > 0 && len(reply.Added) == 0 {
			a.console.Println("  (All selected contacts already in the list)")
		}
	}
}

func (a *App) partyMenu(ctx context.Context, list *domain.PartyList) (bool, error) {
	for {
		a.console.Rule()
		a.console.Printf("  %s\n  %d contact(s) ready to party\n", list.Name, list.Len())
		a.console.Rule()
		a.console.Println("\n  1. View contacts")
		a.console.Println("  2. Add contacts (search)")
		a.console.Println("  3. Add contact manually")
		a.console.Println("  4. Remove contact")
		a.console.Println("  5. Switch/create list")
		a.console.Printf("\n  6. %s --> %d people are waiting!\n", ui.Rainbow("SEND THE TEXTS"), list.Len())
		a.console.Println("\n  0. Exit")

		choice, err := a.console.Prompt("\n> ")
		if err != nil {
			return false, err
		}

		switch choice {
		case "1":
			a.viewMembers(list)
		case "2":
			if err := a.addBySearch(ctx, list); err != nil {
				return false, err
			}
		case "3":
			if err := a.addManually(list); err != nil {
				return false, err
			}
		case "4":
			if err := a.removeMember(list); err != nil {
				return false, err
			}
		case "5":
			return true, nil
		case "6":
			if err := a.sendFlow(ctx, list); err != nil {
				return false, err
			}
		case "0":
			return false, nil
		default:
			a.console.Println("Invalid option.")
		}
	}
}

func (a *App) viewMembers(list *domain.PartyList) {
	if list.Len() == 0 {
		a.console.Println("\nNo contacts in your party list yet.")
		return
	}
	a.console.Println("\n--- Party Contacts ---")
	a.console.ContactTable(list.Members, nil)
	a.console.Printf("\nTotal: %d contact(s)\n", list.Len())
}

func (a *App) addBySearch(ctx context.Context, list *domain.PartyList) error {
	snapshot, _, err := a.service.ContactsOrSync(ctx)
	if err != nil {
		if recoverable(err) {
			a.console.Printf("%v\n", err)
			return nil
		}
		return err
	}
	if len(snapshot) == 0 {
		a.console.Println("No contacts available.")
		return nil
	}
	if err := a.buildInto(ctx, list, snapshot); err != nil {
		return err
	}
	return a.service.SaveList(list)
}

func (a *App) addManually(list *domain.PartyList) error {
	a.console.Println("\n--- Add Contact Manually ---")
	name, err := a.console.Prompt("Name: ")
	if err != nil {
		return err
	}
	if name == "" {
		a.console.Println("Name cannot be empty.")
		return nil
	}
	phone, err := a.console.Prompt("Phone number: ")
	if err != nil {
		return err
	}
	if phone == "" {
		a.console.Println("Phone number cannot be empty.")
		return nil
	}

	added := list.AddMembers(domain.Contact{Name: name, Handle: phone})
	if len(added) == 0 {
		a.console.Printf("%s is already in the list.\n", phone)
		return nil
	}
	if err := a.service.SaveList(list); err != nil {
		return err
	}
	a.console.Printf("Added %s to your party list!\n", name)
	return nil
}

func (a *App) removeMember(list *domain.PartyList) error {
	if list.Len() == 0 {
		a.console.Println("\nNo contacts to remove.")
		return nil
	}
	a.viewMembers(list)
	choice, err := a.console.Prompt("\nEnter number to remove, or 'c' to cancel: ")
	if err != nil {
		return err
	}
	if strings.ToLower(choice) == "c" {
		return nil
	}
	idx, convErr := strconv.Atoi(choice)
	if convErr != nil {
		a.console.Println("Invalid input.")
		return nil
	}
	removed, err := list.RemoveAt(idx)
	if err != nil {
		a.console.Println("Invalid number.")
		return nil
	}
	if err := a.service.SaveList(list); err != nil {
		return err
	}
	a.console.Printf("Removed %s from your party list.\n", removed.Name)
	return nil
}

func (a *App) sendFlow(ctx context.Context, list *domain.PartyList) error {
	if list.Len() == 0 {
		a.console.Println("\nNo contacts in your party list. Add some first!")
		return nil
	}

	a.console.Banner("TIME TO SEND SOME TEXTS")
	a.console.Println("\nWrite your message below. Use {name} and it'll be")
	a.console.Println("swapped with each person's first name automatically.")
	a.console.Printf("\nType '1' to use: %s\n", domain.DefaultTemplate)
	if a.drafter != nil {
		a.console.Println("Type 'ai' to have each invitation drafted for you.")
	}

	input, err := a.console.Prompt("\n> ")
	if err != nil {
		return err
	}

	var aiEvent, aiVibe string
	aiMode := false
	switch {
	case input == "1":
		input = string(domain.DefaultTemplate)
		a.console.Printf("Using: %s\n", input)
	case strings.EqualFold(input, "ai") && a.drafter != nil:
		aiMode = true
		if aiEvent, err = a.console.Prompt("Describe the event: "); err != nil {
			return err
		}
		if aiVibe, err = a.console.Prompt("Vibe (Enter for fun and casual): "); err != nil {
			return err
		}
		input = string(domain.DefaultTemplate) // fallback when a draft fails
	case input == "":
		a.console.Println("Message cannot be empty.")
		return nil
	}

	s := session.NewSendSession(*list, domain.Template(input))
	a.log.Info("send session started", "session", s.ID, "list", list.Name, "members", list.Len())
	a.console.Println("\n[Enter] or [S] to send / [E]dit / [N]ext / [Q]uit")

	drafted := 0
	for s.Active() {
		contact := s.Current()
		pos, total := s.Position()
		// One draft per member: re-prompting after an edit or a bad
		// keystroke keeps the current message instead of redrafting.
		if aiMode && pos != drafted {
			drafted = pos
			draft, draftErr := a.drafter.Draft(ctx, aiEvent, aiVibe, contact)
			if draftErr != nil {
				a.log.Warn("draft failed, using the template", "handle", contact.Handle, "error", draftErr)
			} else {
				s.Override(draft)
			}
		}

		a.console.Printf("\n--- %d/%d: %s ---\n> %s\n", pos, total, contact.Name, s.Message())

		choice, err := a.console.Prompt("\n[Enter/S/E/N/Q]: ")
		if err != nil {
			return err
		}

		switch strings.ToLower(choice) {
		case "", "s":
			a.console.Printf("Sending... ")
			if err := s.Confirm(ctx, a.transport); err != nil {
				a.console.Printf("Failed: %v\n", err)
			} else {
				a.console.Println("Sent!")
			}
		case "e":
			text, err := a.console.Prompt("New msg: ")
			if err != nil {
				return err
			}
			s.Override(text)
		case "n":
			s.Skip()
		case "q":
			s.Quit()
		default:
			a.console.Println("Invalid option.")
		}
	}

	summary := s.Summary()
	a.log.Info("send session finished", "session", s.ID,
		"sent", summary.Sent, "skipped", summary.Skipped,
		"failed", summary.Failed, "not_reached", summary.NotReached)
	a.console.Printf("\nDone! Sent: %d, Skipped: %d, Failed: %d, Not reached: %d\n",
		summary.Sent, summary.Skipped, summary.Failed, summary.NotReached)
	return nil
}

// recoverable reports whether an error should be shown and re-prompted
// rather than ending the program.
func recoverable(err error) bool {
	return errors.Is(err, apperrors.ErrSourceUnavailable) ||
		errors.Is(err, apperrors.ErrDuplicateList) ||
		errors.Is(err, apperrors.ErrListNotFound) ||
		errors.Is(err, apperrors.ErrCorruptList) ||
		errors.Is(err, apperrors.ErrInvalidSelection)
}
