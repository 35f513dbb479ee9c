package service

import (
	"context"

	"bizledger/internal/model"
	"bizledger/internal/repository"

	"github.com/shopspring/decimal"
)

type EmployeeRequest struct {
	EmpID    string          `json:"emp_id"`
	Name     string          `json:"name" binding:"required"`
	Role     string          `json:"role"`
	Salary   decimal.Decimal `json:"salary"`
	JoinDate string          `json:"join_date" binding:"omitempty,isodate"`
	Status   string          `json:"status" binding:"omitempty,oneof=Active Inactive"`
}

type EmployeeService interface {
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	CreateEmployee(ctx context.Context, req EmployeeRequest) (*model.Employee, error)
	UpdateEmployee(ctx context.Context, id string, req EmployeeRequest) (*model.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

type employeeService struct {
	employees repository.Collection[model.Employee]
	txManager repository.TransactionManager
	now       Clock
}

func NewEmployeeService(employees repository.Collection[model.Employee], txManager repository.TransactionManager, now Clock) EmployeeService {
	return &employeeService{employees: employees, txManager: txManager, now: orNow(now)}
}

func (s *employeeService) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	return s.employees.All(ctx)
}

func (s *employeeService) CreateEmployee(ctx context.Context, req EmployeeRequest) (*model.Employee, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	joinDate, err := dateOrToday(req.JoinDate, s.now)
	if err != nil {
		return nil, err
	}

	e := &model.Employee{
		EmpID:    keyOrNew(req.EmpID, model.PrefixEmployee),
		Name:     req.Name,
		Role:     req.Role,
		Salary:   req.Salary.Round(2),
		JoinDate: joinDate,
		Status:   statusOrActive(req.Status),
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.employees.Append(txCtx, e)
	}, model.TableEmployees)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *employeeService) UpdateEmployee(ctx context.Context, id string, req EmployeeRequest) (*model.Employee, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	var out *model.Employee
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		e, err := s.employees.Update(txCtx, id, func(e *model.Employee) error {
			e.Name = req.Name
			e.Role = req.Role
			e.Salary = req.Salary.Round(2)
			if req.JoinDate != "" {
				e.JoinDate = req.JoinDate
			}
			e.Status = statusOrActive(req.Status)
			return nil
		})
		out = e
		return err
	}, model.TableEmployees)
	return out, err
}

func (s *employeeService) DeleteEmployee(ctx context.Context, id string) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.employees.Remove(txCtx, id)
	}, model.TableEmployees)
}

func (s *employeeService) check(req EmployeeRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	return requireNonNegative("salary", req.Salary)
}

func statusOrActive(status string) string {
	if status == "" {
		return model.EmployeeActive
	}
	return status
}
