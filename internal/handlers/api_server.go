// internal/handlers/api_server.go
package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/eatup-app/eatup/internal/catalog"
	"github.com/eatup-app/eatup/internal/database"
	"github.com/eatup-app/eatup/internal/lobby"
	"github.com/eatup-app/eatup/internal/middleware"
	"github.com/eatup-app/eatup/internal/models"
	"github.com/eatup-app/eatup/internal/spin"
)

// CreditStore is the slice of the profile store the spin flow needs. The
// default implementation talks to the directory database; tests substitute
// their own.
type CreditStore interface {
	DecrementSpinCredits(ctx context.Context, userID uuid.UUID) error
	IncrementSpinCredits(ctx context.Context, userID uuid.UUID, amount int) error
}

// dbCreditStore forwards credit mutations to the directory database.
type dbCreditStore struct{}

func (dbCreditStore) DecrementSpinCredits(ctx context.Context, userID uuid.UUID) error {
	return database.DecrementSpinCredits(ctx, userID)
}

func (dbCreditStore) IncrementSpinCredits(ctx context.Context, userID uuid.UUID, amount int) error {
	return database.IncrementSpinCredits(ctx, userID, amount)
}

// InvitationDirectory is the slice of the external directory the invitation
// flows need. Accept and decline are scoped to the receiver: an invitation id
// alone is not enough to consume someone else's invitation.
type InvitationDirectory interface {
	lobby.InvitationSender
	AcceptLobbyInvitation(ctx context.Context, invitationID, receiverID uuid.UUID) (*models.LobbyInvitation, error)
	DeclineLobbyInvitation(ctx context.Context, invitationID, receiverID uuid.UUID) error
	ListPendingInvitations(ctx context.Context, userID uuid.UUID, asSender bool) ([]models.LobbyInvitation, error)
}

// dbInvitationDirectory forwards invitation operations to the directory
// database.
type dbInvitationDirectory struct{}

func (dbInvitationDirectory) SendLobbyInvitation(ctx context.Context, lobbyID, senderID, receiverID uuid.UUID, lobbyName string) error {
	return database.InsertLobbyInvitation(ctx, lobbyID, senderID, receiverID, lobbyName)
}

func (dbInvitationDirectory) AcceptLobbyInvitation(ctx context.Context, invitationID, receiverID uuid.UUID) (*models.LobbyInvitation, error) {
	return database.AcceptLobbyInvitation(ctx, invitationID, receiverID)
}

func (dbInvitationDirectory) DeclineLobbyInvitation(ctx context.Context, invitationID, receiverID uuid.UUID) error {
	return database.DeclineLobbyInvitation(ctx, invitationID, receiverID)
}

func (dbInvitationDirectory) ListPendingInvitations(ctx context.Context, userID uuid.UUID, asSender bool) ([]models.LobbyInvitation, error) {
	return database.ListPendingInvitations(ctx, userID, asSender)
}

// ApiServer bundles the service's in-memory state and collaborators behind
// the HTTP surface.
type ApiServer struct {
	Logger  *logrus.Logger
	Lobbies *lobby.Store
	Spins   *spin.Engine
	Catalog *catalog.Catalog
	Credits CreditStore
	Invites InvitationDirectory
}

// NewApiServer wires an ApiServer over the given catalog and spin engine,
// with directory-backed credit and invitation collaborators.
func NewApiServer(logger *logrus.Logger, c *catalog.Catalog, engine *spin.Engine) *ApiServer {
	return &ApiServer{
		Logger:  logger,
		Lobbies: lobby.NewStore(),
		Spins:   engine,
		Catalog: c,
		Credits: dbCreditStore{},
		Invites: dbInvitationDirectory{},
	}
}

// Routes builds the HTTP mux for the service.
func (s *ApiServer) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", PingHandler)

	mux.HandleFunc("/user/create", CreateUserHandler)
	mux.HandleFunc("/user/login", LoginHandler)
	mux.HandleFunc("/user/me", MeHandler)
	mux.HandleFunc("/user/presence", UpdatePresenceHandler)

	mux.HandleFunc("/friends/request", SendFriendRequestHandler)
	mux.HandleFunc("/friends/accept", AcceptFriendRequestHandler)
	mux.HandleFunc("/friends/decline", DeclineFriendRequestHandler)
	mux.HandleFunc("/friends/list", ListFriendsHandler)
	mux.HandleFunc("/friends/remove", RemoveFriendHandler)
	mux.HandleFunc("/friends/search", SearchUsersHandler)

	mux.HandleFunc("/invitations/list", ListInvitationsHandler(s))
	mux.HandleFunc("/invitations/accept", AcceptInvitationHandler(s))
	mux.HandleFunc("/invitations/decline", DeclineInvitationHandler(s))

	mux.HandleFunc("/lobby/create", CreateLobbyHandler(s))
	mux.HandleFunc("/lobby/list", ListLobbiesHandler(s))
	mux.HandleFunc("/lobby/get", GetLobbyHandler(s))
	mux.HandleFunc("/lobby/current", CurrentLobbyHandler(s))
	mux.HandleFunc("/lobby/select", SelectLobbyHandler(s))
	mux.HandleFunc("/lobby/join", JoinLobbyHandler(s))
	mux.HandleFunc("/lobby/leave", LeaveLobbyHandler(s))
	mux.HandleFunc("/lobby/ready", ToggleReadyHandler(s))
	mux.HandleFunc("/lobby/status", UpdateLobbyStatusHandler(s))
	mux.HandleFunc("/lobby/meeting-time", SetMeetingTimeHandler(s))
	mux.HandleFunc("/lobby/invite", InviteFriendsHandler(s))
	mux.HandleFunc("/lobby/spin", GroupSpinHandler(s))
	mux.Handle("/lobby/ws/", LobbyWSHandler(s.Logger, s))

	mux.HandleFunc("/spin", SpinHandler(s))
	mux.HandleFunc("/spin/history", SpinHistoryHandler(s))

	mux.HandleFunc("/catalog/restaurants", ListRestaurantsHandler(s))
	mux.HandleFunc("/catalog/offers", ListOffersHandler(s))

	mux.HandleFunc("/redemption/qr", QRPayloadHandler(s))

	return middleware.LogMiddleware(s.Logger)(mux)
}
