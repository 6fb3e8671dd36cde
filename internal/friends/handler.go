package friends

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/verudex/Momentum-sub000/internal/auth"
	"github.com/verudex/Momentum-sub000/internal/telemetry/tracing"
	"github.com/verudex/Momentum-sub000/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type FriendsListResponse struct {
	Friends []Friend `json:"friends"`
}

type RequestsListResponse struct {
	Sent     []FriendRequest `json:"sent"`
	Received []FriendRequest `json:"received"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.friends.register")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("register, unmarshal json params: %s", err)
		http.Error(w, "registration failed", http.StatusBadRequest)
		return
	}

	user, err := handler.service.Register(ctx, req.Username, req.Password, req.DisplayName)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			http.Error(w, "username already taken", http.StatusConflict)
			return
		}
		log.Errorf("register [%s]: %s", req.Username, err)
		http.Error(w, "registration failed", http.StatusBadRequest)
		return
	}

	userJson, err := json.Marshal(user)
	if err != nil {
		log.Errorf("marshal registered user: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, userJson, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.friends.list")
	defer span.End()

	uid, ok := auth.UserUIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	listed, err := handler.service.Friends(ctx, uid)
	if err != nil {
		log.Errorf("list friends for [%s]: %s", uid, err)
		http.Error(w, "failed to list friends", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(FriendsListResponse{Friends: listed})
	if err != nil {
		log.Errorf("marshal friends list: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleListRequests(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.friends.listRequests")
	defer span.End()

	uid, ok := auth.UserUIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	sent, err := handler.service.SentRequests(ctx, uid)
	if err != nil {
		log.Errorf("list sent requests for [%s]: %s", uid, err)
		http.Error(w, "failed to list requests", http.StatusInternalServerError)
		return
	}
	received, err := handler.service.ReceivedRequests(ctx, uid)
	if err != nil {
		log.Errorf("list received requests for [%s]: %s", uid, err)
		http.Error(w, "failed to list requests", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(RequestsListResponse{Sent: sent, Received: received})
	if err != nil {
		log.Errorf("marshal requests list: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleSendRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.friends.sendRequest")
	defer span.End()

	uid, ok := auth.UserUIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	toUsername := mux.Vars(r)["username"]
	if toUsername == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}

	if err := handler.service.SendRequest(ctx, uid, toUsername); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("send friend request [%s] -> [%s]: %s", uid, toUsername, err)
		http.Error(w, "failed to send friend request", http.StatusBadRequest)
		return
	}

	pkg.WriteTextResponseOK(w, "request sent")
}

func (handler *Handler) HandleAcceptRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.friends.acceptRequest")
	defer span.End()

	uid, ok := auth.UserUIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	fromUID := mux.Vars(r)["uid"]
	if err := handler.service.AcceptRequest(ctx, uid, fromUID); err != nil {
		if errors.Is(err, ErrFriendRequestNotFound) {
			http.Error(w, "friend request not found", http.StatusNotFound)
			return
		}
		log.Errorf("accept friend request [%s] -> [%s]: %s", fromUID, uid, err)
		http.Error(w, "failed to accept friend request", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "request accepted")
}

func (handler *Handler) HandleDeclineRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.friends.declineRequest")
	defer span.End()

	uid, ok := auth.UserUIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	fromUID := mux.Vars(r)["uid"]
	if err := handler.service.DeclineRequest(ctx, uid, fromUID); err != nil {
		if errors.Is(err, ErrFriendRequestNotFound) {
			http.Error(w, "friend request not found", http.StatusNotFound)
			return
		}
		log.Errorf("decline friend request [%s] -> [%s]: %s", fromUID, uid, err)
		http.Error(w, "failed to decline friend request", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "request declined")
}

func (handler *Handler) HandleUnfriend(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.friends.unfriend")
	defer span.End()

	uid, ok := auth.UserUIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	friendUID := mux.Vars(r)["uid"]
	if err := handler.service.Unfriend(ctx, uid, friendUID); err != nil {
		log.Errorf("unfriend [%s] -> [%s]: %s", uid, friendUID, err)
		http.Error(w, "failed to unfriend", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "unfriended")
}
