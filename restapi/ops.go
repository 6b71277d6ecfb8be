package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	dispatch "github.com/sharedcode-labs/dispatchtable"
	"github.com/sharedcode-labs/dispatchtable/snapshot"
)

// OpsAPI serves read and call-through endpoints over a bound dispatch.Table.
type OpsAPI struct {
	table *dispatch.Table
}

// NewOpsAPI returns an OpsAPI bound to table.
func NewOpsAPI(table *dispatch.Table) *OpsAPI {
	return &OpsAPI{table: table}
}

// callRequest is the JSON body CallOp expects: one base64-encoded byte
// string per declared argument, in order.
type callRequest struct {
	Args [][]byte `json:"args"`
}

type callResponse struct {
	Status int32  `json:"status"`
	Ret    []byte `json:"ret,omitempty"`
}

// GetOps godoc
// @Summary GetOps lists every opcode registered in the table
// @Schemes
// @Description GetOps responds with the hex key of every registered opcode.
// @Tags Ops
// @Produce json
// @Success 200 {object} []string
// @Router /ops [get]
// @Security Bearer
func (a *OpsAPI) GetOps(c *gin.Context) {
	opcodes := a.table.Opcodes()
	keys := make([]string, 0, len(opcodes))
	for _, opcode := range opcodes {
		keys = append(keys, dispatch.EncodeKey(opcode))
	}
	c.IndentedJSON(http.StatusOK, keys)
}

// GetOp godoc
// @Summary GetOp returns one operation's descriptor shape
// @Schemes
// @Description GetOp responds with the args/retval/owner shape of the operation registered under opcode (a lowercase hex key, no 0x prefix).
// @Tags Ops
// @Produce json
// @Param opcode path string true "Hex-encoded opcode"
// @Failure 404 {object} map[string]any
// @Success 200 {object} snapshot.Shape
// @Router /ops/{opcode} [get]
// @Security Bearer
func (a *OpsAPI) GetOp(c *gin.Context) {
	opcode, err := decodeOpcodeParam(c)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	desc, ok := a.table.Lookup(opcode)
	if !ok {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "opcode not registered"})
		return
	}
	c.IndentedJSON(http.StatusOK, snapshot.ShapeOf(desc))
}

// CallOp godoc
// @Summary CallOp invokes the operation registered under opcode
// @Schemes
// @Description CallOp runs the full check_call pipeline (validate then dispatch) against the JSON body's base64-encoded args and returns the handler's status and, for OWNER_TABLE operations, its return buffer.
// @Tags Ops
// @Accept json
// @Produce json
// @Param opcode path string true "Hex-encoded opcode"
// @Param body body callRequest true "Call arguments"
// @Failure 404 {object} map[string]any
// @Success 200 {object} callResponse
// @Router /ops/{opcode}/call [post]
// @Security Bearer
func (a *OpsAPI) CallOp(c *gin.Context) {
	opcode, err := decodeOpcodeParam(c)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	desc, ok := a.table.Lookup(opcode)
	if !ok {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "opcode not registered"})
		return
	}

	var req callRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	status := a.table.CheckCall(opcode, nil, req.Args)
	if status < 0 {
		c.IndentedJSON(http.StatusUnprocessableEntity, gin.H{"message": "check_call rejected the request"})
		return
	}

	resp := callResponse{Status: status}
	if desc.RetvalOwner == dispatch.OwnerTable && !dispatch.IsArgEnd(desc.Retval) {
		// The table-owned buffer the handler just wrote into; SetRet is
		// idempotent so re-fetching it here doesn't disturb anything.
		if ret, err := a.table.SetRet(opcode); err == nil {
			resp.Ret = ret
		}
	}
	c.IndentedJSON(http.StatusOK, resp)
}

func decodeOpcodeParam(c *gin.Context) (uint32, error) {
	return dispatch.DecodeKey(c.Param("opcode"))
}
