package api

// BillScoped is implemented by every request that addresses a single stored bill.
type BillScoped interface {
	GetBillID() string
}

func (x *GetBillRequest) GetBillID() string {
	if x == nil {
		return ""
	}
	return x.BillID
}

func (x *SaveBillRequest) GetBillID() string {
	if x == nil {
		return ""
	}
	return x.BillID
}

func (x *DeleteBillRequest) GetBillID() string {
	if x == nil {
		return ""
	}
	return x.BillID
}

func (x *ResetBillRequest) GetBillID() string {
	if x == nil {
		return ""
	}
	return x.BillID
}

func (x *AddParticipantsRequest) GetBillID() string {
	if x == nil {
		return ""
	}
	return x.BillID
}

func (x *ListParticipantsRequest) GetBillID() string {
	if x == nil {
		return ""
	}
	return x.BillID
}

func (x *RemoveParticipantRequest) GetBillID() string {
	if x == nil {
		return ""
	}
	return x.BillID
}

func (x *AddItemRequest) GetBillID() string {
	if x == nil {
		return ""
	}
	return x.BillID
}

func (x *ListItemsRequest) GetBillID() string {
	if x == nil {
		return ""
	}
	return x.BillID
}

func (x *UpdateItemRequest) GetBillID() string {
	if x == nil {
		return ""
	}
	return x.BillID
}

func (x *RemoveItemRequest) GetBillID() string {
	if x == nil {
		return ""
	}
	return x.BillID
}

func (x *SetItemSplitsRequest) GetBillID() string {
	if x == nil {
		return ""
	}
	return x.BillID
}

func (x *SetAdjustmentsRequest) GetBillID() string {
	if x == nil {
		return ""
	}
	return x.BillID
}

func (x *GetSummaryRequest) GetBillID() string {
	if x == nil {
		return ""
	}
	return x.BillID
}

func (x *CreateShareLinkRequest) GetBillID() string {
	if x == nil {
		return ""
	}
	return x.BillID
}
