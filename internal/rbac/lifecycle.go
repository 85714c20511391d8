package rbac

import (
	"context"
	"crypto/subtle"
	"sync"

	"cardstack/internal/model"
	"cardstack/internal/repository"

	"github.com/google/uuid"
)

// Lifecycle управляет жизненным циклом доски: создание, инвайт-коды,
// вступление и состав участников. Мутации одной доски сериализуются
// per-board мьютексом: проверка "останется ли администратор" и коммит
// удаления должны быть неразрывны, иначе два параллельных удаления
// могут вместе снести обоих оставшихся админов.
type Lifecycle struct {
	boards      repository.BoardRepositoryInterface
	memberships repository.MembershipRepositoryInterface
	users       repository.UserRepositoryInterface
	roles       repository.RoleRepositoryInterface
	resolver    *Resolver

	locks sync.Map // uuid.UUID -> *sync.Mutex
}

func NewLifecycle(
	boards repository.BoardRepositoryInterface,
	memberships repository.MembershipRepositoryInterface,
	users repository.UserRepositoryInterface,
	roles repository.RoleRepositoryInterface,
	resolver *Resolver,
) *Lifecycle {
	return &Lifecycle{
		boards:      boards,
		memberships: memberships,
		users:       users,
		roles:       roles,
		resolver:    resolver,
	}
}

// MemberAdd описывает одного добавляемого участника
type MemberAdd struct {
	UserID  uuid.UUID
	RoleIDs []uuid.UUID
}

func (l *Lifecycle) lockBoard(boardID uuid.UUID) *sync.Mutex {
	mu, _ := l.locks.LoadOrStore(boardID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Create создает доску со свежим инвайт-кодом и единственным членством
// владельца с ролью администратора доски
func (l *Lifecycle) Create(ctx context.Context, ownerID uuid.UUID, name, description string) (*model.Board, error) {
	owner, err := l.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, storageFailure(err)
	}
	if owner == nil {
		return nil, ErrUserNotFound
	}

	adminRole, err := l.roles.FindByName(ctx, model.RoleBoardAdmin)
	if err != nil {
		return nil, storageFailure(err)
	}
	if adminRole == nil {
		return nil, ErrNotFound
	}

	code, err := newInviteCode()
	if err != nil {
		return nil, storageFailure(err)
	}

	board := &model.Board{
		Name:        name,
		Description: description,
		InviteCode:  code,
	}
	if err := l.boards.CreateWithOwner(ctx, board, ownerID, adminRole.ID); err != nil {
		return nil, storageFailure(err)
	}

	l.resolver.InvalidateUser(ownerID)
	return board, nil
}

// RotateInviteCode генерирует и атомарно подменяет инвайт-код доски.
// Старый код перестает действовать сразу, без переходного периода.
func (l *Lifecycle) RotateInviteCode(ctx context.Context, boardID uuid.UUID) (string, error) {
	mu := l.lockBoard(boardID)
	mu.Lock()
	defer mu.Unlock()

	board, err := l.boards.GetByID(ctx, boardID)
	if err != nil {
		return "", storageFailure(err)
	}
	if board == nil {
		return "", ErrNotFound
	}

	code, err := newInviteCode()
	if err != nil {
		return "", storageFailure(err)
	}
	if err := l.boards.UpdateInviteCode(ctx, boardID, code); err != nil {
		return "", storageFailure(err)
	}
	return code, nil
}

// JoinByCode вступает на доску по инвайт-коду. Повторное вступление
// уже состоящего участника — no-op, а не ошибка.
func (l *Lifecycle) JoinByCode(ctx context.Context, boardID, userID uuid.UUID, presentedCode string) error {
	mu := l.lockBoard(boardID)
	mu.Lock()
	defer mu.Unlock()

	board, err := l.boards.GetByID(ctx, boardID)
	if err != nil {
		return storageFailure(err)
	}
	if board == nil {
		return ErrNotFound
	}

	user, err := l.users.GetByID(ctx, userID)
	if err != nil {
		return storageFailure(err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if subtle.ConstantTimeCompare([]byte(presentedCode), []byte(board.InviteCode)) != 1 {
		return ErrInvalidCode
	}

	existing, err := l.memberships.GetByBoardAndUser(ctx, boardID, userID)
	if err != nil {
		return storageFailure(err)
	}
	if existing != nil {
		return nil // уже участник
	}

	memberRole, err := l.roles.FindByName(ctx, model.RoleBoardMember)
	if err != nil {
		return storageFailure(err)
	}
	if memberRole == nil {
		return ErrNotFound
	}

	membership := model.Membership{BoardID: boardID, UserID: userID}
	roleIDs := map[uuid.UUID][]uuid.UUID{userID: {memberRole.ID}}
	if err := l.memberships.CreateBatch(ctx, []model.Membership{membership}, roleIDs); err != nil {
		return storageFailure(err)
	}

	l.resolver.InvalidateUser(userID)
	return nil
}

// AddMembers добавляет участников с заданными наборами board-ролей.
// Уже состоящие участники пропускаются, дубликаты в запросе схлопываются.
// Ссылка на несуществующего пользователя отменяет весь вызов.
func (l *Lifecycle) AddMembers(ctx context.Context, boardID uuid.UUID, adds []MemberAdd) error {
	mu := l.lockBoard(boardID)
	mu.Lock()
	defer mu.Unlock()

	board, err := l.boards.GetByID(ctx, boardID)
	if err != nil {
		return storageFailure(err)
	}
	if board == nil {
		return ErrNotFound
	}

	// Дедупликация по пользователю, первый элемент выигрывает
	seen := make(map[uuid.UUID]bool, len(adds))
	deduped := adds[:0:0]
	for _, add := range adds {
		if seen[add.UserID] {
			continue
		}
		seen[add.UserID] = true
		deduped = append(deduped, add)
	}

	var memberships []model.Membership
	roleIDs := make(map[uuid.UUID][]uuid.UUID)
	affected := make([]uuid.UUID, 0, len(deduped))
	for _, add := range deduped {
		user, err := l.users.GetByID(ctx, add.UserID)
		if err != nil {
			return storageFailure(err)
		}
		if user == nil {
			return ErrUserNotFound
		}

		existing, err := l.memberships.GetByBoardAndUser(ctx, boardID, add.UserID)
		if err != nil {
			return storageFailure(err)
		}
		if existing != nil {
			continue // уже участник, пропускаем
		}

		// Неизвестные ID ролей молча пропускаются
		roles, err := l.roles.GetByIDs(ctx, add.RoleIDs)
		if err != nil {
			return storageFailure(err)
		}
		ids := make([]uuid.UUID, len(roles))
		for i, role := range roles {
			ids[i] = role.ID
		}

		memberships = append(memberships, model.Membership{BoardID: boardID, UserID: add.UserID})
		roleIDs[add.UserID] = ids
		affected = append(affected, add.UserID)
	}

	if err := l.memberships.CreateBatch(ctx, memberships, roleIDs); err != nil {
		return storageFailure(err)
	}

	for _, userID := range affected {
		l.resolver.InvalidateUser(userID)
	}
	return nil
}

// RemoveMembers удаляет участников доски по принципу "все или ничего".
// Если после удаления на доске не останется ни одного держателя
// административной роли, весь вызов отклоняется и ни одно членство
// не трогается.
func (l *Lifecycle) RemoveMembers(ctx context.Context, boardID uuid.UUID, userIDs []uuid.UUID) error {
	mu := l.lockBoard(boardID)
	mu.Lock()
	defer mu.Unlock()

	return l.removeLocked(ctx, boardID, userIDs)
}

// Leave — выход участника с доски. Семантика совпадает с RemoveMembers
// для одного пользователя; кто вправе вызывать что — забота
// авторизационного слоя снаружи, здесь проверка та же.
func (l *Lifecycle) Leave(ctx context.Context, boardID, userID uuid.UUID) error {
	mu := l.lockBoard(boardID)
	mu.Lock()
	defer mu.Unlock()

	return l.removeLocked(ctx, boardID, []uuid.UUID{userID})
}

func (l *Lifecycle) removeLocked(ctx context.Context, boardID uuid.UUID, userIDs []uuid.UUID) error {
	board, err := l.boards.GetByID(ctx, boardID)
	if err != nil {
		return storageFailure(err)
	}
	if board == nil {
		return ErrNotFound
	}

	members, err := l.memberships.ListByBoard(ctx, boardID)
	if err != nil {
		return storageFailure(err)
	}

	targets := make(map[uuid.UUID]bool, len(userIDs))
	for _, id := range userIDs {
		targets[id] = true
	}

	// Защита последнего администратора: считаем держателей админ-роли
	// до и после удаления по самим ролям, а не по производным разрешениям
	admins := 0
	remainingAdmins := 0
	removable := make([]uuid.UUID, 0, len(userIDs))
	for _, member := range members {
		isAdmin := model.HasAdminRole(member.Roles)
		if isAdmin {
			admins++
		}
		if targets[member.UserID] {
			removable = append(removable, member.UserID)
			continue
		}
		if isAdmin {
			remainingAdmins++
		}
	}

	if admins > 0 && remainingAdmins == 0 {
		return ErrLastAdminProtected
	}

	if err := l.memberships.DeleteBatch(ctx, boardID, removable); err != nil {
		return storageFailure(err)
	}

	for _, userID := range removable {
		l.resolver.InvalidateUser(userID)
	}
	return nil
}

// SetCardState заменяет непрозрачное состояние карт участника доски
func (l *Lifecycle) SetCardState(ctx context.Context, boardID, userID uuid.UUID, state string) error {
	membership, err := l.memberships.GetByBoardAndUser(ctx, boardID, userID)
	if err != nil {
		return storageFailure(err)
	}
	if membership == nil {
		return ErrNotFound
	}
	if err := l.memberships.UpdateCardState(ctx, boardID, userID, state); err != nil {
		return storageFailure(err)
	}
	return nil
}

// Members возвращает состав участников доски
func (l *Lifecycle) Members(ctx context.Context, boardID uuid.UUID) ([]model.Membership, error) {
	board, err := l.boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, storageFailure(err)
	}
	if board == nil {
		return nil, ErrNotFound
	}
	members, err := l.memberships.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, storageFailure(err)
	}
	return members, nil
}
