package game

import "errors"

// 玩家操作失败时返回的哨兵错误，调用方用 errors.Is 判断
var (
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrTileOccupied          = errors.New("tile occupied")
	ErrInvalidPlacement      = errors.New("invalid placement")
	ErrUnknownBuilding       = errors.New("unknown building type")
	ErrNotHeld               = errors.New("building is not held")
	ErrUnknownEntity         = errors.New("unknown entity")
	ErrNotDemolishable       = errors.New("building cannot be demolished")
	ErrGameOver              = errors.New("game over")
)
