package tools

import (
	"context"
	"fmt"

	"github.com/agriguru/agriguru/catalog"
	"github.com/agriguru/agriguru/core"
	"github.com/agriguru/agriguru/store"
	"github.com/agriguru/agriguru/tool"
)

type sendMessageArgs struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// sendMessageHandler resolves a friendly name to a recipient id through the
// owner's connections and appends the message. An unresolvable name is a
// normal result with an embedded error, not a fault.
func (d *deps) sendMessageHandler() tool.Handler {
	decl := catalog.MustGet("send_message")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(ctx context.Context, ownerID string, args sendMessageArgs) (core.Result, error) {
			docs, err := d.store.Query(ctx, core.CollectionConnections, store.Query{
				Predicates: []store.Predicate{
					store.Where("senderId", store.OpEqual, ownerID),
					store.Where("friendName", store.OpEqual, args.Name),
				},
				Limit: 1,
			})
			if err != nil {
				return core.Result{}, err
			}
			if len(docs) == 0 {
				d.logger.Warn("send_message recipient not found", "friend_name", args.Name)
				return core.ErrorResult(fmt.Sprintf("No connected friend named %q.", args.Name)), nil
			}

			var conn core.Connection
			if err := docs[0].Decode(&conn); err != nil {
				return core.Result{}, err
			}

			message := core.Message{
				SenderID:    ownerID,
				RecipientID: conn.FriendID,
				Content:     args.Content,
				Timestamp:   d.now(),
				IsAIMessage: false,
			}
			if _, err := d.store.Append(ctx, core.CollectionMessages, message); err != nil {
				return core.Result{}, err
			}
			return core.TextResult(fmt.Sprintf("Message sent to %s.", args.Name)), nil
		})
}

type ageRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type findUsersArgs struct {
	Interests []string `json:"interests"`
	AgeRange  ageRange `json:"ageRange"`
}

// findUsersHandler matches users sharing any of the given interests within
// the age range and returns the raw match list.
func (d *deps) findUsersHandler() tool.Handler {
	decl := catalog.MustGet("find_users")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(ctx context.Context, _ string, args findUsersArgs) (core.Result, error) {
			docs, err := d.store.Query(ctx, core.CollectionUsers, store.Query{
				Predicates: []store.Predicate{
					store.Where("interests", store.OpArrayContainsAny, args.Interests),
					store.Where("age", store.OpGreaterOrEqual, args.AgeRange.Min),
					store.Where("age", store.OpLessOrEqual, args.AgeRange.Max),
				},
			})
			if err != nil {
				return core.Result{}, err
			}

			users := make([]core.User, 0, len(docs))
			for _, doc := range docs {
				var u core.User
				if err := doc.Decode(&u); err != nil {
					return core.Result{}, err
				}
				if u.ID == "" {
					u.ID = doc.ID
				}
				users = append(users, u)
			}
			return core.ObjectResult(map[string]any{"users": users}), nil
		})
}

type connectUserArgs struct {
	UserID     string `json:"userid"`
	FriendName string `json:"friendName"`
}

// connectUserHandler appends a directed connection edge. Repeat calls create
// duplicate edges; dedup intent is unconfirmed upstream.
func (d *deps) connectUserHandler() tool.Handler {
	decl := catalog.MustGet("connect_user")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(ctx context.Context, ownerID string, args connectUserArgs) (core.Result, error) {
			conn := core.Connection{
				SenderID:   ownerID,
				FriendID:   args.UserID,
				FriendName: args.FriendName,
			}
			if _, err := d.store.Append(ctx, core.CollectionConnections, conn); err != nil {
				return core.Result{}, err
			}
			return core.TextResult(fmt.Sprintf("Connected with %s.", args.FriendName)), nil
		})
}

type addSymptomsArgs struct {
	Content string `json:"content"`
}

// addSymptomsHandler appends a free-text symptom note for the owner.
func (d *deps) addSymptomsHandler() tool.Handler {
	decl := catalog.MustGet("add_symptoms")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(ctx context.Context, ownerID string, args addSymptomsArgs) (core.Result, error) {
			report := core.SymptomReport{
				SenderID:    ownerID,
				Content:     args.Content,
				Timestamp:   d.now(),
				IsAIMessage: false,
			}
			if _, err := d.store.Append(ctx, core.CollectionSymptoms, report); err != nil {
				return core.Result{}, err
			}
			return core.TextResult("Symptoms recorded."), nil
		})
}

type speakTextArgs struct {
	Text string `json:"text"`
}

// speakTextHandler acknowledges the request; the hosting client performs the
// actual audio output.
func (d *deps) speakTextHandler() tool.Handler {
	decl := catalog.MustGet("speak_text")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(_ context.Context, _ string, _ speakTextArgs) (core.Result, error) {
			return core.TextResult("speak_text completed successfully."), nil
		})
}

type readMessageArgs struct {
	MessageContent string `json:"messageContent"`
}

// readMessageHandler acknowledges the request; the hosting client performs
// the actual audio output.
func (d *deps) readMessageHandler() tool.Handler {
	decl := catalog.MustGet("read_message")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(_ context.Context, _ string, _ readMessageArgs) (core.Result, error) {
			return core.TextResult("read_message completed successfully."), nil
		})
}
