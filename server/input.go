package server

import "snakearena/game"

// Input 客户端输入（意图），由 Tick 协程在下一帧写入蛇的待定方向
type Input struct {
	PlayerID int
	Command  game.Direction
}

// joinRequest 握手首行到达后，由读协程提交给 Tick 协程
type joinRequest struct {
	Conn *ClientConn
	Name string
}
