package vlan

import (
	"context"
	"fmt"
	"time"

	"vlanman/internal/activity"
	"vlanman/internal/device"
	"vlanman/internal/logs"
	"vlanman/internal/models"

	"github.com/google/uuid"
)

// Actor is who is performing an operation and from where.
type Actor struct {
	UserUUID string
	IP       string
}

type Options struct {
	// DefaultExpiryHours applies when a create request sets AutoDelete
	// without an explicit ExpiryHours.
	DefaultExpiryHours int
}

// Service sequences validation, device interaction and persistence for
// one logical operation. A record is committed only after the device
// confirmed the change.
type Service struct {
	repo *Repo
	rec  *activity.Recorder
	dev  device.Dialer
	opts Options
}

func NewService(repo *Repo, rec *activity.Recorder, dev device.Dialer, opts Options) *Service {
	if opts.DefaultExpiryHours <= 0 {
		opts.DefaultExpiryHours = 24
	}
	return &Service{repo: repo, rec: rec, dev: dev, opts: opts}
}

type CreateRequest struct {
	VlanID      int    `json:"vlan_id"`
	Name        string `json:"vlan_name"`
	Description string `json:"description"`
	SubnetMask  string `json:"subnet_mask"`
	AutoDelete  bool   `json:"auto_delete"`
	ExpiryHours int    `json:"expiry_hours"`
}

// Create validates the request, provisions the VLAN on the device, and
// only then persists the record.
//
// Two simultaneous creates with the same id can both pass the duplicate
// check before either commits; the storage layer does not guard that
// race and both rows would land.
func (s *Service) Create(ctx context.Context, req CreateRequest, actor Actor) (*models.VlanConfig, error) {
	if err := ValidateVlanID(req.VlanID); err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsActive(req.VlanID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("VLAN %d: %w", req.VlanID, ErrConflict)
	}
	if err := ValidateVlanName(req.Name); err != nil {
		return nil, err
	}
	if req.SubnetMask == "" {
		req.SubnetMask = "255.255.255.0"
	}
	if err := ValidateSubnetMask(req.SubnetMask); err != nil {
		return nil, err
	}

	commands := []string{
		fmt.Sprintf("vlan %d", req.VlanID),
		fmt.Sprintf("name %s", req.Name),
	}
	if err := s.runOnDevice(ctx, "create", commands, actor,
		fmt.Sprintf("Failed to create VLAN %d", req.VlanID)); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var expiresAt *time.Time
	if req.AutoDelete {
		hours := req.ExpiryHours
		if hours <= 0 {
			hours = s.opts.DefaultExpiryHours
		}
		t := now.Add(time.Duration(hours) * time.Hour)
		expiresAt = &t
	}

	v := &models.VlanConfig{
		UUID:          uuid.NewString(),
		VlanID:        req.VlanID,
		Name:          req.Name,
		Description:   req.Description,
		UserUUID:      actor.UserUUID,
		SubnetMask:    req.SubnetMask,
		MaxHosts:      MaxHosts(req.SubnetMask),
		Status:        models.VlanStatusActive,
		AutoDelete:    req.AutoDelete,
		ExpiresAt:     expiresAt,
		DeviceSynced:  true,
		SyncTimestamp: &now,
	}
	if err := s.repo.Create(v); err != nil {
		// The device-side VLAN exists but the record does not; this
		// inconsistency is surfaced, not reconciled.
		logs.Logger.Errorf("VLAN %d created on device but not persisted: %v", req.VlanID, err)
		s.rec.Record(actor.UserUUID, "", models.ActionCreate,
			fmt.Sprintf("VLAN %d on device but storage write failed", req.VlanID),
			models.OutcomeFailed, actor.IP)
		return nil, err
	}

	s.rec.Record(actor.UserUUID, v.UUID, models.ActionCreate,
		fmt.Sprintf("Created VLAN %d (%s)", v.VlanID, v.Name), models.OutcomeSuccess, actor.IP)
	logs.Logger.Infof("VLAN %d created by %s", v.VlanID, actor.UserUUID)
	return v, nil
}

// Read is a storage lookup only; it never queries the device.
func (s *Service) Read(uuid string) (*models.VlanConfig, error) {
	return s.repo.GetByUUID(uuid)
}

func (s *Service) ListAll() ([]models.VlanConfig, error) { return s.repo.ListAll() }

func (s *Service) ListByUser(userUUID string) ([]models.VlanConfig, error) {
	return s.repo.ListByUser(userUUID)
}

type UpdateRequest struct {
	Name        *string `json:"vlan_name"`
	Description *string `json:"description"`
	SubnetMask  *string `json:"subnet_mask"`
}

// Update renames the VLAN on the device when the name changes. A mask
// change is stored and max-hosts recomputed, but not pushed: the switch
// only knows the VLAN id and name.
func (s *Service) Update(ctx context.Context, uuid string, req UpdateRequest, actor Actor) (*models.VlanConfig, error) {
	v, err := s.repo.GetByUUID(uuid)
	if err != nil {
		return nil, err
	}
	if v.UserUUID != actor.UserUUID {
		return nil, ErrForbidden
	}

	if req.Name != nil {
		if err := ValidateVlanName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.SubnetMask != nil {
		if err := ValidateSubnetMask(*req.SubnetMask); err != nil {
			return nil, err
		}
	}

	if req.Name != nil && *req.Name != v.Name {
		commands := []string{
			fmt.Sprintf("vlan %d", v.VlanID),
			fmt.Sprintf("name %s", *req.Name),
		}
		if err := s.runOnDevice(ctx, "update", commands, actor,
			fmt.Sprintf("Failed to update VLAN %d", v.VlanID)); err != nil {
			return nil, err
		}
		v.Name = *req.Name
		now := time.Now().UTC()
		v.SyncTimestamp = &now
	}
	if req.Description != nil {
		v.Description = *req.Description
	}
	if req.SubnetMask != nil {
		v.SubnetMask = *req.SubnetMask
		v.MaxHosts = MaxHosts(*req.SubnetMask)
	}

	if err := s.repo.Save(v); err != nil {
		s.rec.Record(actor.UserUUID, v.UUID, models.ActionUpdate,
			fmt.Sprintf("Failed to persist update of VLAN %d", v.VlanID),
			models.OutcomeFailed, actor.IP)
		return nil, err
	}

	s.rec.Record(actor.UserUUID, v.UUID, models.ActionUpdate,
		fmt.Sprintf("Updated VLAN %d", v.VlanID), models.OutcomeSuccess, actor.IP)
	return v, nil
}

// Delete removes the VLAN from the device, then the record. The
// reserved default VLAN is refused regardless of actor.
func (s *Service) Delete(ctx context.Context, uuid string, actor Actor) error {
	v, err := s.repo.GetByUUID(uuid)
	if err != nil {
		return err
	}
	if v.UserUUID != actor.UserUUID {
		return ErrForbidden
	}
	if v.VlanID == ReservedVlanID {
		return fmt.Errorf("cannot delete default VLAN %d: %w", ReservedVlanID, ErrForbidden)
	}

	commands := []string{fmt.Sprintf("no vlan %d", v.VlanID)}
	if err := s.runOnDevice(ctx, "delete", commands, actor,
		fmt.Sprintf("Failed to delete VLAN %d", v.VlanID)); err != nil {
		return err
	}

	if err := s.repo.Delete(v); err != nil {
		logs.Logger.Errorf("VLAN %d removed on device but record remains: %v", v.VlanID, err)
		s.rec.Record(actor.UserUUID, v.UUID, models.ActionDelete,
			fmt.Sprintf("VLAN %d removed on device but storage delete failed", v.VlanID),
			models.OutcomeFailed, actor.IP)
		return err
	}

	s.rec.Record(actor.UserUUID, v.UUID, models.ActionDelete,
		fmt.Sprintf("Deleted VLAN %d", v.VlanID), models.OutcomeSuccess, actor.IP)
	logs.Logger.Infof("VLAN %d deleted by %s", v.VlanID, actor.UserUUID)
	return nil
}

// ExpirySweep marks overdue auto-delete records as expired. Storage
// only: the device-side VLAN is deliberately left in place.
func (s *Service) ExpirySweep() (int, error) {
	expired, err := s.repo.MarkExpired(time.Now().UTC())
	if err != nil {
		return 0, err
	}
	for i := range expired {
		v := &expired[i]
		s.rec.Record(v.UserUUID, v.UUID, models.ActionExpire,
			fmt.Sprintf("VLAN %d marked expired", v.VlanID), models.OutcomeSuccess, "")
		logs.Logger.Infof("VLAN %d marked expired", v.VlanID)
	}
	return len(expired), nil
}

// VerifyOnDevice checks whether the VLAN exists on the switch. This is
// the diagnostic path; normal reads never touch the device.
func (s *Service) VerifyOnDevice(ctx context.Context, vlanID int) (bool, string, error) {
	conn, err := s.dev.Connect(ctx)
	if err != nil {
		return false, "", err
	}
	defer conn.Close()

	out, err := conn.RunShowCommand(fmt.Sprintf("show vlan id %d", vlanID))
	if err != nil {
		return false, "", &DeviceOpError{Op: "verify", Err: err}
	}
	if device.VlanMissing(out) {
		return false, "", nil
	}
	return true, out, nil
}

// runOnDevice does one connect / config / save / disconnect round trip.
// Connect failures come back as *device.ConnectError; command failures
// as *DeviceOpError. Both append a FAILED activity entry first. A
// save-config failure is logged but does not unwind the applied change.
func (s *Service) runOnDevice(ctx context.Context, op string, commands []string, actor Actor, failDetail string) error {
	conn, err := s.dev.Connect(ctx)
	if err != nil {
		s.rec.Record(actor.UserUUID, "", actionFor(op),
			failDetail+": device connection failed", models.OutcomeFailed, actor.IP)
		return err
	}
	defer conn.Close()

	if _, err := conn.RunConfigCommands(commands); err != nil {
		s.rec.Record(actor.UserUUID, "", actionFor(op), failDetail, models.OutcomeFailed, actor.IP)
		return &DeviceOpError{Op: op, Err: err}
	}
	if err := conn.SaveConfig(); err != nil {
		logs.Logger.Errorf("save config after %s: %v (change applied but not persisted on device)", op, err)
	}
	return nil
}

func actionFor(op string) string {
	switch op {
	case "update":
		return models.ActionUpdate
	case "delete":
		return models.ActionDelete
	default:
		return models.ActionCreate
	}
}
