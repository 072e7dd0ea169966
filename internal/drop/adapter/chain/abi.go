package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// dropABI is the subset of the DropERC721 interface the marketplace calls
const dropABI = `[
  {"type":"function","name":"getActiveClaimConditionId","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getClaimConditionById","stateMutability":"view",
   "inputs":[{"name":"_conditionId","type":"uint256"}],
   "outputs":[{"name":"condition","type":"tuple","components":[
     {"name":"startTimestamp","type":"uint256"},
     {"name":"maxClaimableSupply","type":"uint256"},
     {"name":"supplyClaimed","type":"uint256"},
     {"name":"quantityLimitPerWallet","type":"uint256"},
     {"name":"merkleRoot","type":"bytes32"},
     {"name":"pricePerToken","type":"uint256"},
     {"name":"currency","type":"address"},
     {"name":"metadata","type":"string"}]}]},
  {"type":"function","name":"getSupplyClaimedByWallet","stateMutability":"view",
   "inputs":[{"name":"_conditionId","type":"uint256"},{"name":"_claimer","type":"address"}],
   "outputs":[{"name":"supplyClaimedByWallet","type":"uint256"}]},
  {"type":"function","name":"totalMinted","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"nextTokenIdToMint","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"tokenURI","stateMutability":"view",
   "inputs":[{"name":"_tokenId","type":"uint256"}],
   "outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"claim","stateMutability":"payable",
   "inputs":[
     {"name":"_receiver","type":"address"},
     {"name":"_quantity","type":"uint256"},
     {"name":"_currency","type":"address"},
     {"name":"_pricePerToken","type":"uint256"},
     {"name":"_allowlistProof","type":"tuple","components":[
       {"name":"proof","type":"bytes32[]"},
       {"name":"quantityLimitPerWallet","type":"uint256"},
       {"name":"pricePerToken","type":"uint256"},
       {"name":"currency","type":"address"}]},
     {"name":"_data","type":"bytes"}],
   "outputs":[]},
  {"type":"event","name":"Transfer","anonymous":false,"inputs":[
     {"name":"from","type":"address","indexed":true},
     {"name":"to","type":"address","indexed":true},
     {"name":"tokenId","type":"uint256","indexed":true}]}
]`

// erc20ABI covers the metadata reads for ERC-20 priced claim conditions
const erc20ABI = `[
  {"type":"function","name":"symbol","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"decimals","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"uint8"}]}
]`

var (
	DropABI  = mustParse(dropABI)
	ERC20ABI = mustParse(erc20ABI)
)

func mustParse(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic("chain: invalid ABI: " + err.Error())
	}
	return parsed
}
