package engine

// Board is a square grid of cells indexed as board[row][col]
type Board [][]CellState

// NewBoard creates a size x size board with every cell Empty
func NewBoard(size int) Board {
	board := make(Board, size)
	for i := range board {
		board[i] = make([]CellState, size)
		for j := range board[i] {
			board[i][j] = Empty
		}
	}
	return board
}

// Size returns the side length of the board
func (b Board) Size() int {
	return len(b)
}

// InBounds reports whether c lies on the board
func (b Board) InBounds(c Coordinate) bool {
	return c.Row >= 0 && c.Row < len(b) && c.Col >= 0 && c.Col < len(b)
}

// At returns the state of the cell at c. Out-of-range coordinates read as Empty.
func (b Board) At(c Coordinate) CellState {
	if !b.InBounds(c) {
		return Empty
	}
	return b[c.Row][c.Col]
}

// Guessed reports whether c has already been resolved as a hit or a miss
func (b Board) Guessed(c Coordinate) bool {
	state := b.At(c)
	return state == Hit || state == Miss
}

// Count returns the number of cells in the given state
func (b Board) Count(state CellState) int {
	count := 0
	for _, row := range b {
		for _, cell := range row {
			if cell == state {
				count++
			}
		}
	}
	return count
}

// Clone returns a deep copy of the board
func (b Board) Clone() Board {
	clone := make(Board, len(b))
	for i := range b {
		clone[i] = make([]CellState, len(b[i]))
		copy(clone[i], b[i])
	}
	return clone
}
