package kernel

type CandidateID string

func NewCandidateID(id string) CandidateID { return CandidateID(id) }
func (r CandidateID) String() string       { return string(r) }
func (r CandidateID) IsEmpty() bool        { return string(r) == "" }

type JobID string

func NewJobID(id string) JobID { return JobID(id) }
func (r JobID) String() string { return string(r) }
func (r JobID) IsEmpty() bool  { return string(r) == "" }

type ApplicationID string

func NewApplicationID(id string) ApplicationID { return ApplicationID(id) }
func (r ApplicationID) String() string         { return string(r) }
func (r ApplicationID) IsEmpty() bool          { return string(r) == "" }

type ParseJobID string

func NewParseJobID(id string) ParseJobID { return ParseJobID(id) }
func (r ParseJobID) String() string      { return string(r) }

type TaskID string

func NewTaskID(id string) TaskID { return TaskID(id) }
func (r TaskID) String() string  { return string(r) }

type FAQID string

func NewFAQID(id string) FAQID { return FAQID(id) }
func (r FAQID) String() string { return string(r) }
